package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	records := []StationRecord{
		rec("CHUM", "12345M001", "CHUM0050.02O"),
		rec("ABCD", "99999S001", "ABCD0010.02O"),
		rec("CHUM00", "12345M001", "CHUM0010.02O"),
		rec("CHUM", "12345M002", "CHUM0020.02O"),
	}
	reg := NewRegistry(records)

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, records, reg.Records())
	assert.Equal(t, []StationKey{
		NewStationKey("CHUM", "12345M001"),
		NewStationKey("ABCD", "99999S001"),
		NewStationKey("CHUM", "12345M002"),
	}, reg.Keys())

	unique := reg.Unique()
	require.Len(t, unique, 3)
	assert.Equal(t, "CHUM0050.02O", unique[0].SourceFilename)
	assert.Equal(t, "ABCD0010.02O", unique[1].SourceFilename)
	assert.Equal(t, "CHUM0020.02O", unique[2].SourceFilename)

	members := reg.Members(NewStationKey("CHUM", "12345M001"))
	require.Len(t, members, 2)
	assert.Equal(t, "CHUM0050.02O", members[0].SourceFilename)
	assert.Equal(t, "CHUM0010.02O", members[1].SourceFilename)

	assert.Empty(t, reg.Members(NewStationKey("ZZZZ", "")))
}

func TestRegistry_DoesNotAliasInput(t *testing.T) {
	records := []StationRecord{rec("CHUM", "12345M001", "CHUM0010.02O")}
	reg := NewRegistry(records)

	records[0].MarkerName = "XXXX"
	assert.Equal(t, "CHUM", reg.Records()[0].MarkerName)

	out := reg.Records()
	out[0].MarkerName = "YYYY"
	assert.Equal(t, "CHUM", reg.Unique()[0].MarkerName)
}

func TestRegistry_EquipmentGroups(t *testing.T) {
	a := rec("CHUM", "12345M001", "CHUM0010.02O")
	b := rec("CHUM", "12345M001", "CHUM0020.02O")
	c := rec("CHUM", "12345M001", "CHUM0030.02O")
	c.AntennaType = "ASH700936D_M"

	keys, groups := NewRegistry([]StationRecord{a, c, b}).EquipmentGroups()

	require.Len(t, keys, 2)
	assert.Equal(t, EquipmentKeyOf(a), keys[0])
	assert.Equal(t, EquipmentKeyOf(c), keys[1])
	assert.Len(t, groups[keys[0]], 2)
	assert.Len(t, groups[keys[1]], 1)
}
