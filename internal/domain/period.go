package domain

import (
	"cmp"
	"slices"
	"time"
)

// datedRecord pairs a record with the date derived from its filename.
type datedRecord struct {
	rec  StationRecord
	date time.Time
}

func dateRecords(records []StationRecord) []datedRecord {
	out := make([]datedRecord, len(records))
	for i, rec := range records {
		date, _ := FileDate(rec.SourceFilename)
		out[i] = datedRecord{rec: rec, date: date}
	}
	return out
}

// CombinedPeriods returns one period per station key spanning all of its
// files. From is the earliest file date; To is the latest file end, where a
// file ends at its TIME OF LAST OBS or, lacking one, at the end of its file
// date. The representative record is the earliest file, earlier input
// winning ties. Periods are ordered by marker name, then marker number.
func CombinedPeriods(reg *Registry) []ObservationPeriod {
	periods := make([]ObservationPeriod, 0, len(reg.keys))
	for _, key := range reg.keys {
		members := dateRecords(reg.Members(key))
		if len(members) == 0 {
			continue
		}

		first := members[0]
		to := fileEnd(first)
		for _, m := range members[1:] {
			if m.date.Before(first.date) {
				first = m
			}
			if end := fileEnd(m); end.After(to) {
				to = end
			}
		}

		periods = append(periods, ObservationPeriod{
			Station:        first.rec,
			From:           first.date,
			To:             to,
			RemarkFilename: first.rec.SourceFilename,
		})
	}

	slices.SortStableFunc(periods, func(a, b ObservationPeriod) int {
		return compareStations(a.Station, b.Station)
	})
	return periods
}

// EquipmentPeriods returns one period per marker name, receiver type and
// antenna type, so an equipment change at a marker starts a new period.
// Members are ordered by filename date. The date parts of From and To come
// from the first and last member's filename, the clock parts from their TIME
// OF FIRST OBS and TIME OF LAST OBS. A missing last epoch ends the period at
// the end of the last file's day. Periods are ordered by marker name, marker
// number and From.
func EquipmentPeriods(reg *Registry) []ObservationPeriod {
	keys, groups := reg.EquipmentGroups()
	periods := make([]ObservationPeriod, 0, len(keys))
	for _, key := range keys {
		members := dateRecords(groups[key])
		slices.SortStableFunc(members, func(a, b datedRecord) int {
			return a.date.Compare(b.date)
		})

		first, last := members[0], members[len(members)-1]
		from := first.date.Add(timeOfDay(first.rec.FirstObs))
		to := endOfDay(last.date)
		if !last.rec.LastObs.IsZero() {
			to = last.date.Add(timeOfDay(last.rec.LastObs))
		}
		if to.Before(from) {
			to = endOfDay(last.date)
		}

		periods = append(periods, ObservationPeriod{
			Station:        first.rec,
			From:           from,
			To:             to,
			RemarkFilename: first.rec.SourceFilename,
		})
	}

	slices.SortStableFunc(periods, func(a, b ObservationPeriod) int {
		if c := compareStations(a.Station, b.Station); c != 0 {
			return c
		}
		return a.From.Compare(b.From)
	})
	return periods
}

// fileEnd is the last epoch a file covers.
func fileEnd(m datedRecord) time.Time {
	if last := m.rec.LastObs; !last.IsZero() && !last.Before(m.date) {
		return last
	}
	return endOfDay(m.date)
}

// endOfDay returns the last second of the day starting at date.
func endOfDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1).Add(-time.Second)
}

func compareStations(a, b StationRecord) int {
	if c := cmp.Compare(a.MarkerName, b.MarkerName); c != 0 {
		return c
	}
	return cmp.Compare(a.MarkerNumber, b.MarkerNumber)
}
