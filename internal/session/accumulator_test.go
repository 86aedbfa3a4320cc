package session

import "testing"

func TestAccumulator_AppendAndFinalize(t *testing.T) {
	acc := NewAccumulator()

	if got := acc.Append("Hello"); got != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", got)
	}
	if got := acc.Append(" world"); got != "Hello world" {
		t.Errorf("Expected 'Hello world', got '%s'", got)
	}

	text, ok := acc.Finalize()
	if !ok {
		t.Fatal("Expected finalize to produce a turn")
	}
	if text != "Hello world" {
		t.Errorf("Expected 'Hello world', got '%s'", text)
	}
	if acc.Pending() != "" {
		t.Errorf("Expected empty buffer after finalize, got '%s'", acc.Pending())
	}
}

func TestAccumulator_FinalizeTrims(t *testing.T) {
	acc := NewAccumulator()
	acc.Append("  hello  ")

	text, ok := acc.Finalize()
	if !ok {
		t.Fatal("Expected a turn")
	}
	if text != "hello" {
		t.Errorf("Expected trimmed 'hello', got '%s'", text)
	}
}

func TestAccumulator_EmptyFinalizeIsNoop(t *testing.T) {
	acc := NewAccumulator()

	if _, ok := acc.Finalize(); ok {
		t.Error("Finalize on empty buffer must emit nothing")
	}

	acc.Append("   ")
	if _, ok := acc.Finalize(); ok {
		t.Error("Finalize on whitespace-only buffer must emit nothing")
	}
}

func TestAccumulator_DoubleFinalize(t *testing.T) {
	acc := NewAccumulator()
	acc.Append("one")

	if _, ok := acc.Finalize(); !ok {
		t.Fatal("Expected first finalize to produce a turn")
	}
	// No intervening fragment: second finalize emits nothing
	if _, ok := acc.Finalize(); ok {
		t.Error("Second finalize without fragments must emit nothing")
	}

	acc.Append("two")
	text, ok := acc.Finalize()
	if !ok || text != "two" {
		t.Errorf("Expected 'two' after new fragment, got '%s' (ok=%v)", text, ok)
	}
}

func TestAccumulator_Reset(t *testing.T) {
	acc := NewAccumulator()
	acc.Append("discarded")
	acc.Reset()

	if _, ok := acc.Finalize(); ok {
		t.Error("Expected nothing after reset")
	}
}
