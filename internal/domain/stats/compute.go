package stats

import (
	"sort"
	"time"
)

const dayFormat = "2006-01-02"

// ComputeStats aggregates the fetched records into four totals and a
// dense per-day series covering every day of the window inclusive.
// The window is arbitrary; callers pick the default.
func ComputeStats(from, to time.Time, personal []PersonalRecord, ownShares []OwnShareRecord, lent []LentShareRecord) Stats {
	stats := Stats{From: from, To: to}

	dayIndex := make(map[string]int)
	for day := truncateDay(from); !day.After(truncateDay(to)); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		dayIndex[key] = len(stats.Days)
		stats.Days = append(stats.Days, DayStat{Date: key})
	}

	bucket := func(date time.Time) *DayStat {
		index, ok := dayIndex[date.Format(dayFormat)]
		if !ok {
			return nil
		}
		return &stats.Days[index]
	}

	for _, record := range personal {
		stats.Personal += record.Amount
		stats.TotalExpenditure += record.Amount
		if day := bucket(record.Date); day != nil {
			day.Personal += record.Amount
			day.TotalExpenditure += record.Amount
		}
	}

	// Every own share is the user's consumption; only shares fronted
	// by someone else count as borrowed.
	for _, record := range ownShares {
		stats.TotalExpenditure += record.Amount
		day := bucket(record.Date)
		if day != nil {
			day.TotalExpenditure += record.Amount
		}
		if !record.SelfPaid {
			stats.Borrowed += record.Amount
			if day != nil {
				day.Borrowed += record.Amount
			}
		}
	}

	for _, record := range lent {
		stats.Lent += record.Amount
		if day := bucket(record.Date); day != nil {
			day.Lent += record.Amount
		}
	}

	return stats
}

// ComputeBreakdown itemizes the same records per day, newest day
// first. Days without activity are omitted here; the dense series is
// the job of ComputeStats.
func ComputeBreakdown(personal []PersonalRecord, ownShares []OwnShareRecord) []BreakdownDay {
	byDay := make(map[string][]BreakdownEntry)

	for _, record := range personal {
		key := record.Date.Format(dayFormat)
		byDay[key] = append(byDay[key], BreakdownEntry{
			Kind:        EntryPersonal,
			Description: record.Description,
			Amount:      record.Amount,
		})
	}

	for _, record := range ownShares {
		kind := EntryBorrowed
		if record.SelfPaid {
			kind = EntrySplitShare
		}
		key := record.Date.Format(dayFormat)
		byDay[key] = append(byDay[key], BreakdownEntry{
			Kind:        kind,
			Description: record.Description,
			Amount:      record.Amount,
		})
	}

	result := make([]BreakdownDay, 0, len(byDay))
	for date, entries := range byDay {
		var total float64
		for _, entry := range entries {
			total += entry.Amount
		}
		result = append(result, BreakdownDay{Date: date, Total: total, Entries: entries})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
