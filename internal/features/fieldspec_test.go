package features

import "testing"

func TestRegistry_Shape(t *testing.T) {
	t.Parallel()

	if Width() != 8 {
		t.Fatalf("expected 8 fields, got %d", Width())
	}

	wantOrder := []string{
		"Pregnancies", "Glucose", "BloodPressure", "SkinThickness",
		"Insulin", "BMI", "DiabetesPedigreeFunction", "Age",
	}
	for i, name := range Names() {
		if name != wantOrder[i] {
			t.Errorf("field %d: expected %q, got %q", i, wantOrder[i], name)
		}
	}

	for _, spec := range Registry() {
		if spec.Min >= spec.Max {
			t.Errorf("%s: min %v not below max %v", spec.Name, spec.Min, spec.Max)
		}
	}
}

func TestRegistry_ReturnsCopy(t *testing.T) {
	t.Parallel()

	specs := Registry()
	specs[0].Name = "mutated"
	if Registry()[0].Name != "Pregnancies" {
		t.Error("Registry must not expose internal state")
	}
}
