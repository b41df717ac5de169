package employee

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "EMP-"

// NewID はローカルで採番する社員 ID を返します。一意性は確率的にのみ保証されます。
func NewID() string {
	return idPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
