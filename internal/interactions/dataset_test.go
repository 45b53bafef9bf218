package interactions_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/drugx/internal/interactions"
	"github.com/JaimeStill/drugx/pkg/query"
)

func TestReadDataset(t *testing.T) {
	csv := "ddinter_id_a,ddinter_id_b,drug_a,drug_b,severity,categories\n" +
		"DDInter20,DDInter1951,Aspirin,Warfarin,Major,\"B,H\"\n" +
		"DDInter1,DDInter2,Abacavir,Ribavirin,severe,V\n"

	got, err := interactions.ReadDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := []interactions.Record{
		{DDInterA: "DDInter20", DDInterB: "DDInter1951", DrugA: "Aspirin", DrugB: "Warfarin", Severity: interactions.SeverityMajor, Categories: []string{"B", "H"}},
		{DDInterA: "DDInter1", DDInterB: "DDInter2", DrugA: "Abacavir", DrugB: "Ribavirin", Severity: interactions.SeverityUnknown, Categories: []string{"V"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("records:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadDatasetInvalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"missing column", "ddinter_id_a,ddinter_id_b,drug_a,drug_b,severity\nA,B,x,y,Major\n"},
		{"blank drug", "ddinter_id_a,ddinter_id_b,drug_a,drug_b,severity,categories\nA,B,,y,Major,B\n"},
		{"blank categories", "ddinter_id_a,ddinter_id_b,drug_a,drug_b,severity,categories\nA,B,x,y,Major,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interactions.ReadDataset(strings.NewReader(tt.csv))
			if !errors.Is(err, interactions.ErrInvalidDataset) {
				t.Errorf("got %v, want ErrInvalidDataset", err)
			}
		})
	}
}

func TestFiltersApply(t *testing.T) {
	values := map[string][]string{"drug": {"warf"}, "severity": {"major"}}
	f := interactions.FiltersFromQuery(values)

	if f.Drug == nil || *f.Drug != "warf" {
		t.Fatalf("drug: got %v", f.Drug)
	}
	if f.Severity == nil || *f.Severity != interactions.SeverityMajor {
		t.Fatalf("severity: got %v", f.Severity)
	}

	pm := query.NewProjectionMap("public", "ddinter", "d").
		Project("drug_a", "DrugA").
		Project("drug_b", "DrugB").
		Project("severity", "Severity")

	sql, args := f.Apply(query.NewBuilder(pm)).BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.ddinter d WHERE (d.drug_a ILIKE $1 OR d.drug_b ILIKE $2) AND d.severity = $3"
	if sql != wantSQL {
		t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
	}
	if !reflect.DeepEqual(args, []any{"%warf%", "%warf%", "Major"}) {
		t.Errorf("args: got %v", args)
	}
}
