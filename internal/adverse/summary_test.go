package adverse_test

import (
	"reflect"
	"testing"

	"github.com/JaimeStill/drugx/internal/adverse"
	"github.com/JaimeStill/drugx/pkg/lookup"
)

func TestAggregate(t *testing.T) {
	page := &adverse.Page{
		Total: 812,
		Reports: []adverse.Report{
			{Serious: true, ReceiveDate: "20230102", Reactions: []string{"Rash", "Nausea", "Nausea"}},
			{Serious: false, ReceiveDate: "20240520", Reactions: []string{"Dizziness", "Headache"}},
			{Serious: true, ReceiveDate: "bad", Reactions: []string{"Headache", "Fatigue", "Rash"}},
			{Serious: false, ReceiveDate: "20221231", Reactions: []string{"Vomiting", "Pyrexia", ""}},
		},
	}

	got := adverse.Aggregate([]string{"a", "b"}, []string{"a", "b"}, page, 100)

	if got.Status != lookup.StatusOK {
		t.Errorf("status: got %s", got.Status)
	}
	if got.NReports != 812 || got.SampleSize != 4 || got.NSerious != 2 {
		t.Errorf("counts: got reports=%d sample=%d serious=%d", got.NReports, got.SampleSize, got.NSerious)
	}

	want := []string{"Rash", "Headache", "Nausea", "Dizziness", "Fatigue"}
	if !reflect.DeepEqual(got.TopReactions, want) {
		t.Errorf("top reactions: got %v, want %v", got.TopReactions, want)
	}
	if got.LastReportDate == nil || *got.LastReportDate != "2024-05-20" {
		t.Errorf("last report date: got %v", got.LastReportDate)
	}
}

func TestAggregateBoundedBySample(t *testing.T) {
	reports := make([]adverse.Report, 150)
	for i := range reports {
		reports[i] = adverse.Report{Serious: true, Reactions: []string{"Bleeding"}}
	}

	got := adverse.Aggregate([]string{"a", "b"}, nil, &adverse.Page{Total: 5000, Reports: reports}, 100)

	if got.SampleSize != 100 {
		t.Errorf("sample size: got %d", got.SampleSize)
	}
	if got.NSerious > got.SampleSize {
		t.Errorf("serious %d exceeds sample %d", got.NSerious, got.SampleSize)
	}
	if got.NReports != 5000 {
		t.Errorf("reports: got %d", got.NReports)
	}
	if got.LastReportDate != nil {
		t.Errorf("expected no date, got %s", *got.LastReportDate)
	}
}

func TestAggregateEmptySample(t *testing.T) {
	got := adverse.Aggregate([]string{"a", "b"}, nil, &adverse.Page{Total: 3}, 100)

	if got.SampleSize != 0 || got.NSerious != 0 {
		t.Errorf("got %+v", got)
	}
	if got.TopReactions == nil || len(got.TopReactions) != 0 {
		t.Errorf("top reactions: got %v, want empty", got.TopReactions)
	}
}
