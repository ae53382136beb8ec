package interpreter

import "testing"

func TestResolveReturnsDefaultExtensionSpec(t *testing.T) {
	r := NewResolver(".py", Spec{Interpreter: "python3", Flags: []string{"-u"}})

	spec, err := r.Resolve("/scripts/echo.py")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if spec.Interpreter != "python3" {
		t.Errorf("Interpreter = %q, want python3", spec.Interpreter)
	}
}

func TestRegisterAddsAdditionalExtension(t *testing.T) {
	r := NewResolver(".py", Spec{Interpreter: "python3"})
	r.Register(".sh", Spec{Interpreter: "sh"})

	spec, err := r.Resolve("/scripts/build.sh")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if spec.Interpreter != "sh" {
		t.Errorf("Interpreter = %q, want sh", spec.Interpreter)
	}
}

func TestResolveUnregisteredExtensionFallsBackToDefault(t *testing.T) {
	r := NewResolver(".py", Spec{Interpreter: "python3"})

	spec, err := r.Resolve("/scripts/odd.rb")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if spec.Interpreter != "python3" {
		t.Errorf("Interpreter = %q, want the fallback python3", spec.Interpreter)
	}
}

func TestSpecArgsOrdersFlagsThenPathThenExtra(t *testing.T) {
	spec := Spec{Interpreter: "python3", Flags: []string{"-u"}}
	args := spec.Args("/scripts/echo.py", []string{"a", "b"})

	want := []string{"-u", "/scripts/echo.py", "a", "b"}
	if len(args) != len(want) {
		t.Fatalf("Args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}
