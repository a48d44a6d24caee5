package marking

import (
	"errors"
	"testing"
)

func TestParseNewMarkingValid(t *testing.T) {
	got, err := ParseNewMarking(RawMarking{Name: "tlp_red", DefinitionType: "tlp", Definition: "TLP Red"})
	if err != nil {
		t.Fatalf("ParseNewMarking: %v", err)
	}
	if got.Name().String() != "tlp_red" {
		t.Fatalf("name: %q", got.Name())
	}
	if got.DefinitionType().String() != "tlp" {
		t.Fatalf("definition type: %q", got.DefinitionType())
	}
	if got.Definition().String() != "TLP Red" {
		t.Fatalf("definition: %q", got.Definition())
	}
}

func TestParseNewMarkingNormalizesType(t *testing.T) {
	got, err := ParseNewMarking(RawMarking{Name: "a", DefinitionType: "TLP", Definition: "x"})
	if err != nil {
		t.Fatalf("ParseNewMarking: %v", err)
	}
	if got.DefinitionType().String() != "tlp" {
		t.Fatalf("definition type: got=%q want=tlp", got.DefinitionType())
	}
}

func TestParseNewMarkingRejects(t *testing.T) {
	cases := []struct {
		name  string
		raw   RawMarking
		field string
	}{
		{"uppercase name", RawMarking{Name: "Foo", DefinitionType: "tlp", Definition: "x"}, FieldName},
		{"unknown type", RawMarking{Name: "a", DefinitionType: "secret", Definition: "x"}, FieldDefinitionType},
		{"bad definition", RawMarking{Name: "a", DefinitionType: "tlp", Definition: "{x}"}, FieldDefinition},
		{"empty", RawMarking{}, FieldName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNewMarking(tc.raw)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if FieldOf(err) != tc.field {
				t.Fatalf("field: got=%q want=%q", FieldOf(err), tc.field)
			}
			if !got.IsZero() {
				t.Fatalf("failed parse must not yield a marking: %+v", got)
			}
		})
	}
}

func TestParseNewMarkingReportsFirstFailure(t *testing.T) {
	raw := RawMarking{Name: "Bad Name", DefinitionType: "nope", Definition: "<bad>"}
	_, err := ParseNewMarking(raw)
	_, nameErr := ParseName(raw.Name)
	if err == nil || nameErr == nil {
		t.Fatalf("expected errors")
	}
	if err.Error() != nameErr.Error() {
		t.Fatalf("expected name error first: got=%q want=%q", err, nameErr)
	}

	raw.Name = "good_name"
	_, err = ParseNewMarking(raw)
	if FieldOf(err) != FieldDefinition {
		t.Fatalf("expected definition error before type error, got field %q", FieldOf(err))
	}
}

func TestComposeRequiresParsedParts(t *testing.T) {
	name, _ := ParseName("tlp_amber")
	typ, _ := ParseDefinitionType("tlp")
	def, _ := ParseDefinition("TLP Amber")

	got, err := Compose(name, typ, def)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got.Name() != name || got.DefinitionType() != typ || got.Definition() != def {
		t.Fatalf("unexpected parts: %+v", got)
	}

	if _, err := Compose(Name{}, typ, def); err == nil {
		t.Fatalf("expected error for zero name")
	}
	if _, err := Compose(name, DefinitionType{}, def); err == nil {
		t.Fatalf("expected error for zero type")
	}
	if _, err := Compose(name, typ, Definition{}); err == nil {
		t.Fatalf("expected error for zero definition")
	}
}
