package domain

// Registry groups the StationRecords of one run by StationKey. It preserves
// input order: keys and members appear in the order they were first seen.
type Registry struct {
	records []StationRecord
	keys    []StationKey
	members map[StationKey][]int
}

// NewRegistry indexes records. The slice is copied.
func NewRegistry(records []StationRecord) *Registry {
	r := &Registry{
		records: append([]StationRecord(nil), records...),
		members: make(map[StationKey][]int),
	}
	for i, rec := range r.records {
		key := rec.Key()
		if _, ok := r.members[key]; !ok {
			r.keys = append(r.keys, key)
		}
		r.members[key] = append(r.members[key], i)
	}
	return r
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

// Records returns all records in input order.
func (r *Registry) Records() []StationRecord {
	return append([]StationRecord(nil), r.records...)
}

// Keys returns the distinct station keys in first-seen order.
func (r *Registry) Keys() []StationKey {
	return append([]StationKey(nil), r.keys...)
}

// Unique returns one record per station, the first one seen for each key.
func (r *Registry) Unique() []StationRecord {
	out := make([]StationRecord, 0, len(r.keys))
	for _, key := range r.keys {
		out = append(out, r.records[r.members[key][0]])
	}
	return out
}

// Members returns the records of a station in input order.
func (r *Registry) Members(key StationKey) []StationRecord {
	idx := r.members[key]
	out := make([]StationRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.records[i])
	}
	return out
}

// EquipmentKey identifies one receiver/antenna setup at a marker.
type EquipmentKey struct {
	Name         string
	ReceiverType string
	AntennaType  string
}

// EquipmentKeyOf returns the equipment-scoped identity of a record.
func EquipmentKeyOf(rec StationRecord) EquipmentKey {
	return EquipmentKey{
		Name:         rec.Name(),
		ReceiverType: rec.ReceiverType,
		AntennaType:  rec.AntennaType,
	}
}

// EquipmentGroups groups records by EquipmentKey, keys in first-seen order.
func (r *Registry) EquipmentGroups() ([]EquipmentKey, map[EquipmentKey][]StationRecord) {
	var keys []EquipmentKey
	groups := make(map[EquipmentKey][]StationRecord)
	for _, rec := range r.records {
		key := EquipmentKeyOf(rec)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec)
	}
	return keys, groups
}
