package event

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBus_TypedDispatch(t *testing.T) {
	bus := NewBus(nil)

	var got []ObjectDestroyed
	Subscribe(bus, func(e ObjectDestroyed) { got = append(got, e) })

	hits := 0
	Subscribe(bus, func(ObjectHit) { hits++ })

	bus.Publish(ObjectDestroyed{Type: "asteroid", Position: mgl64.Vec2{1, 2}})
	bus.Publish(Collision{})

	if len(got) != 1 || got[0].Type != "asteroid" || got[0].Position != (mgl64.Vec2{1, 2}) {
		t.Fatalf("Unexpected deliveries %+v", got)
	}
	if hits != 0 {
		t.Errorf("ObjectHit handler should not see other kinds, got %d", hits)
	}
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus(nil)

	var order []string
	var second Subscription

	Subscribe(bus, func(Collision) {
		order = append(order, "first")
		second.Unsubscribe()
	})
	second = Subscribe(bus, func(Collision) { order = append(order, "second") })
	Subscribe(bus, func(Collision) { order = append(order, "third") })

	bus.Publish(Collision{})

	if strings.Join(order, ",") != "first,third" {
		t.Errorf("Expected removed handler skipped in same pass, got %v", order)
	}
	if n := bus.HandlerCount(KindCollision); n != 2 {
		t.Errorf("Expected 2 handlers after unsubscribe, got %d", n)
	}

	// Double unsubscribe is a no-op
	second.Unsubscribe()
	if n := bus.HandlerCount(KindCollision); n != 2 {
		t.Errorf("Expected 2 handlers after repeated unsubscribe, got %d", n)
	}
}

func TestBus_SubscribeDuringDispatch(t *testing.T) {
	bus := NewBus(nil)

	late := 0
	added := false
	Subscribe(bus, func(Collision) {
		if !added {
			added = true
			Subscribe(bus, func(Collision) { late++ })
		}
	})

	bus.Publish(Collision{})
	if late != 0 {
		t.Fatalf("Handler added mid-pass must not run in that pass, ran %d", late)
	}

	bus.Publish(Collision{})
	if late != 1 {
		t.Errorf("Expected late handler on next publish, got %d", late)
	}
}

func TestBus_HandlerPanicIsolated(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(log.New(&buf, "", 0))

	after := 0
	Subscribe(bus, func(ItemCollected) { panic("bad handler") })
	Subscribe(bus, func(ItemCollected) { after++ })

	bus.Publish(ItemCollected{Type: "coin"})
	bus.Publish(ItemCollected{Type: "coin"})

	if after != 2 {
		t.Errorf("Expected later handler to run both times, got %d", after)
	}
	if !strings.Contains(buf.String(), "event item-collected: panic: bad handler") {
		t.Errorf("Expected logged fault, got %q", buf.String())
	}

	stats := bus.Stats()
	if stats.Faults != 2 {
		t.Errorf("Expected 2 faults, got %d", stats.Faults)
	}
	if stats.Published["item-collected"] != 2 {
		t.Errorf("Expected 2 publishes, got %d", stats.Published["item-collected"])
	}
}

func TestKind_Names(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{KindObjectDestroyed, "object-destroyed"},
		{KindComboActivated, "combo-activated"},
		{KindPerformanceCritical, "performance-critical"},
		{KindThemeChanged, "theme-changed"},
	}
	for _, tt := range tests {
		if tt.kind.String() != tt.name {
			t.Errorf("Kind %d: got %q want %q", tt.kind, tt.kind.String(), tt.name)
		}
		k, ok := ParseKind(tt.name)
		if !ok || k != tt.kind {
			t.Errorf("ParseKind(%q) = %v, %v", tt.name, k, ok)
		}
	}

	if _, ok := ParseKind("nope"); ok {
		t.Error("Unknown topic should not parse")
	}
	if Kind(99).String() != "unknown" {
		t.Error("Out of range kind should stringify as unknown")
	}
	if len(Kinds()) != int(kindCount) {
		t.Error("Kinds should list every kind")
	}
}
