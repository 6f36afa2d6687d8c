package core

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestGuard_RecoversAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	r := Guard(logger, "update[3]", func() {
		panic("boom")
	})

	if r != "boom" {
		t.Fatalf("Expected recovered value 'boom', got %v", r)
	}
	if !strings.Contains(buf.String(), "update[3]: panic: boom") {
		t.Errorf("Expected labelled panic in log, got %q", buf.String())
	}
}

func TestGuard_NormalCompletion(t *testing.T) {
	ran := false
	if r := Guard(nil, "noop", func() { ran = true }); r != nil {
		t.Errorf("Expected nil recovery, got %v", r)
	}
	if !ran {
		t.Error("Expected fn to run")
	}
}

func TestReportCrash_RunsHooksInReverse(t *testing.T) {
	var order []int
	OnCrash(func() { order = append(order, 1) })
	OnCrash(func() { panic("hook failed") })
	OnCrash(func() { order = append(order, 3) })

	var buf bytes.Buffer
	reportCrash(&buf, "boom")

	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("Expected hooks [3 1], got %v", order)
	}
	if !strings.Contains(buf.String(), "CRASH DETECTED: boom") {
		t.Errorf("Expected crash header, got %q", buf.String())
	}

	order = nil
	reportCrash(&bytes.Buffer{}, "again")
	if len(order) != 0 {
		t.Errorf("Expected hooks consumed by the first report, got %v", order)
	}
}
