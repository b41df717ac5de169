package employee

// IDs は社員 ID の集合を返します。
func IDs(employees []Employee) map[string]struct{} {
	ids := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// Merge はクラウド側の社員を優先して ID で和集合を取ります。
// cloud は順序を保ったまま全件含まれ、local は cloud に同じ ID が無いものだけが後ろに続きます。
func Merge(cloud, local []Employee) []Employee {
	cloudIDs := IDs(cloud)
	merged := make([]Employee, 0, len(cloud)+len(local))
	merged = append(merged, cloud...)
	for _, e := range local {
		if _, found := cloudIDs[e.ID]; found {
			continue
		}
		merged = append(merged, e)
	}
	return merged
}
