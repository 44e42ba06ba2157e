package buckets

import (
	"testing"
	"time"

	charting "energy-dashboard/internal/charting/domain"
	school "energy-dashboard/internal/school/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustBucketor(t *testing.T, axis charting.XAxis, period school.DateRange) Bucketor {
	t.Helper()
	b, err := New(axis, period, school.NewCalendar(nil))
	if err != nil {
		t.Fatalf("bucketor %s: %v", axis, err)
	}
	return b
}

func TestLabelsAndRangesStayAligned(t *testing.T) {
	period := school.DateRange{Start: date(2023, time.September, 4), End: date(2025, time.August, 31)}
	axes := []charting.XAxis{
		charting.XAxisYear, charting.XAxisAcademicYear, charting.XAxisMonth,
		charting.XAxisWeek, charting.XAxisDay, charting.XAxisDayOfWeek,
		charting.XAxisIntraday, charting.XAxisDatetime, charting.XAxisNoDateBuckets,
	}
	for _, axis := range axes {
		b := mustBucketor(t, axis, period)
		if len(b.Labels()) == 0 {
			t.Fatalf("%s: no buckets", axis)
		}
		if len(b.Labels()) != len(b.Ranges()) {
			t.Fatalf("%s: %d labels vs %d ranges", axis, len(b.Labels()), len(b.Ranges()))
		}
	}
}

func TestYearBucketsCountBackFromPeriodEnd(t *testing.T) {
	period := school.DateRange{Start: date(2023, time.March, 1), End: date(2025, time.August, 31)}
	b := mustBucketor(t, charting.XAxisYear, period)

	ranges := b.Ranges()
	if len(ranges) != 3 {
		t.Fatalf("expected 3 year buckets, got %d", len(ranges))
	}
	last := ranges[len(ranges)-1]
	if !last.End.Equal(date(2025, time.August, 31)) || !last.Start.Equal(date(2024, time.September, 1)) {
		t.Fatalf("most recent year bucket wrong: %v - %v", last.Start, last.End)
	}
	first := ranges[0]
	if !first.Start.Equal(date(2023, time.March, 1)) {
		t.Fatalf("leading partial bucket should start at the period start, got %v", first.Start)
	}

	idx, ok := b.DayIndex(date(2024, time.December, 25))
	if !ok || idx != 2 {
		t.Fatalf("expected Christmas 2024 in bucket 2, got %d ok=%v", idx, ok)
	}
	if _, ok := b.DayIndex(date(2022, time.January, 1)); ok {
		t.Fatal("date before the period must not land in a bucket")
	}
}

func TestAcademicYearBucketsSplitAtSeptember(t *testing.T) {
	period := school.DateRange{Start: date(2023, time.September, 1), End: date(2025, time.August, 31)}
	b := mustBucketor(t, charting.XAxisAcademicYear, period)

	labels := b.Labels()
	if len(labels) != 2 || labels[0] != "2023/2024" || labels[1] != "2024/2025" {
		t.Fatalf("unexpected academic year labels: %v", labels)
	}

	idx, ok := b.DayIndex(date(2024, time.August, 31))
	if !ok || idx != 0 {
		t.Fatalf("31 Aug 2024 belongs to 2023/2024, got %d ok=%v", idx, ok)
	}
	idx, ok = b.DayIndex(date(2024, time.September, 1))
	if !ok || idx != 1 {
		t.Fatalf("1 Sep 2024 belongs to 2024/2025, got %d ok=%v", idx, ok)
	}
}

func TestWeekBucketsDropLeadingPartialWeek(t *testing.T) {
	// 17 days: two whole trailing weeks, three leading days dropped.
	period := school.DateRange{Start: date(2025, time.June, 1), End: date(2025, time.June, 17)}
	b := mustBucketor(t, charting.XAxisWeek, period)

	if len(b.Labels()) != 2 {
		t.Fatalf("expected 2 week buckets, got %d", len(b.Labels()))
	}
	if !b.Ranges()[0].Start.Equal(date(2025, time.June, 4)) {
		t.Fatalf("first whole week should start 4 June, got %v", b.Ranges()[0].Start)
	}
	if _, ok := b.DayIndex(date(2025, time.June, 2)); ok {
		t.Fatal("dropped leading days must not land in a bucket")
	}
}

func TestDayOfWeekFoldsOntoSevenBuckets(t *testing.T) {
	period := school.DateRange{Start: date(2025, time.June, 1), End: date(2025, time.June, 28)}
	b := mustBucketor(t, charting.XAxisDayOfWeek, period)

	if got := b.Labels(); len(got) != 7 || got[0] != "Sunday" || got[6] != "Saturday" {
		t.Fatalf("unexpected weekday labels: %v", got)
	}
	idx, ok := b.DayIndex(date(2025, time.June, 9)) // a Monday
	if !ok || idx != 1 {
		t.Fatalf("expected Monday bucket 1, got %d ok=%v", idx, ok)
	}
}

func TestIntradayBucketsUseTimeOfDay(t *testing.T) {
	period := school.DateRange{Start: date(2025, time.June, 1), End: date(2025, time.June, 7)}
	b := mustBucketor(t, charting.XAxisIntraday, period)

	if !b.HalfHourly() {
		t.Fatal("intraday bucketor must be half-hourly")
	}
	if got := b.Labels(); len(got) != 48 || got[0] != "00:00" || got[1] != "00:30" || got[47] != "23:30" {
		t.Fatalf("unexpected intraday labels: %v", got[:2])
	}
	idx, ok := b.HalfHourIndex(date(2025, time.June, 3), 17)
	if !ok || idx != 17 {
		t.Fatalf("expected bucket 17, got %d ok=%v", idx, ok)
	}
	if _, ok := b.HalfHourIndex(date(2025, time.June, 3), 48); ok {
		t.Fatal("half hour out of range must not land in a bucket")
	}
}

func TestDatetimeBucketsAreChronological(t *testing.T) {
	period := school.DateRange{Start: date(2025, time.June, 1), End: date(2025, time.June, 2)}
	b := mustBucketor(t, charting.XAxisDatetime, period)

	if len(b.Labels()) != 96 {
		t.Fatalf("expected 96 buckets for two days, got %d", len(b.Labels()))
	}
	idx, ok := b.HalfHourIndex(date(2025, time.June, 2), 3)
	if !ok || idx != 51 {
		t.Fatalf("expected bucket 51, got %d ok=%v", idx, ok)
	}
	if _, ok := b.HalfHourIndex(date(2025, time.June, 3), 0); ok {
		t.Fatal("date after the period must not land in a bucket")
	}
}

func TestSingleBucketTakesWholePeriod(t *testing.T) {
	period := school.DateRange{Start: date(2025, time.January, 1), End: date(2025, time.December, 31)}
	b := mustBucketor(t, charting.XAxisNoDateBuckets, period)

	if len(b.Labels()) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(b.Labels()))
	}
	idx, ok := b.DayIndex(date(2025, time.July, 15))
	if !ok || idx != 0 {
		t.Fatalf("expected bucket 0, got %d ok=%v", idx, ok)
	}
}
