package trellis

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCreateEntityDefaults(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity("e")

	if e.ID() == NilEntity || e.ID().Generation() == 0 {
		t.Errorf("ID = %v, want a non-zero generation", e.ID())
	}
	if !e.Enabled() || !e.HierarchyEnabled() {
		t.Error("new entity should be enabled")
	}
	if e.Transform() == nil || !e.Transform().Bound() || e.Parent() != nil {
		t.Error("new entity should own a bound root transform")
	}
	if got, ok := w.Entity(e.ID()); !ok || got != e {
		t.Error("Entity(ID) should resolve")
	}
	if got, ok := w.FindEntity("e"); !ok || got != e {
		t.Error("FindEntity should find e")
	}
	if _, ok := w.FindEntity("missing"); ok {
		t.Error("FindEntity should report false for unknown names")
	}
}

func TestEntityIDsGoStale(t *testing.T) {
	w := newTestWorld()
	a := w.CreateEntity("a")
	old := a.ID()
	a.Release()

	b := w.CreateEntity("b")
	if b.ID().Index() != old.Index() {
		t.Fatalf("slot not reused: %d vs %d", b.ID().Index(), old.Index())
	}
	if b.ID() == old {
		t.Error("reused slot should carry a new generation")
	}
	if _, ok := w.Entity(old); ok {
		t.Error("stale ID resolved")
	}
	if _, ok := w.Entity(NilEntity); ok {
		t.Error("NilEntity resolved")
	}
	if _, ok := w.Entity(newEntityID(99, 1)); ok {
		t.Error("out of range ID resolved")
	}
}

func TestBroadcastSkipRules(t *testing.T) {
	w := newTestWorld()
	on := w.CreateEntity("on")
	off := w.CreateEntity("off")
	child := w.CreateEntity("child")
	off.AddChild(child)
	ron := AddComponent[recorder](on)
	roff := AddComponent[recorder](off)
	rchild := AddComponent[recorder](child)
	off.SetEnabled(false)

	w.Broadcast(UpdateEvent(0.1), true)
	if ron.updates != 1 || roff.updates != 0 || rchild.updates != 0 {
		t.Errorf("onlyEnabled updates = %d/%d/%d, want 1/0/0", ron.updates, roff.updates, rchild.updates)
	}

	w.Broadcast(UpdateEvent(0.1), false)
	if roff.updates != 1 || rchild.updates != 1 {
		t.Errorf("unfiltered updates off=%d child=%d, want 1/1", roff.updates, rchild.updates)
	}
}

// killer releases its target during Update.
type killer struct {
	BaseComponent
	target *Entity
	spawn  bool
	made   *Entity
}

func (k *killer) Update(float32) {
	if k.target != nil && !k.target.Released() {
		k.target.Release()
	}
	if k.spawn && k.made == nil {
		k.made = k.World().CreateEntity("spawned")
		AddComponent[recorder](k.made)
	}
}

func TestBroadcastSkipsReleasedAndNew(t *testing.T) {
	w := newTestWorld()
	first := w.CreateEntity("first")
	second := w.CreateEntity("second")
	k := AddComponent[killer](first)
	k.target = second
	k.spawn = true
	r := AddComponent[recorder](second)

	w.Update(0.1)
	if r.updates != 0 {
		t.Error("entity released during the broadcast should be skipped")
	}
	made, _ := GetComponent[recorder](k.made)
	if made.updates != 0 {
		t.Error("entity created during the broadcast should not be visited")
	}
	w.Update(0.1)
	if made.updates != 1 {
		t.Errorf("spawned updates = %d, want 1", made.updates)
	}
}

func TestUpdateAndEditingUpdate(t *testing.T) {
	w := newTestWorld()
	r := AddComponent[recorder](w.CreateEntity("e"))

	w.Update(0.1)
	w.EditingUpdate(0.1)
	w.EditingUpdate(0.1)
	if r.updates != 1 || r.editings != 2 {
		t.Errorf("updates=%d editings=%d, want 1/2", r.updates, r.editings)
	}
	if w.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", w.Frame())
	}
}

func TestDestroyIsDeferred(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity("e")
	r := AddComponent[recorder](e)

	w.Destroy(e)
	w.Destroy(e)
	if e.Released() {
		t.Fatal("Destroy should not release immediately")
	}
	w.Update(0.1)
	if !e.Released() {
		t.Fatal("queued entity should be released at the end of the tick")
	}
	if r.updates != 1 {
		t.Errorf("queued entity should still update once, got %d", r.updates)
	}
	if r.destroys != 1 {
		t.Errorf("destroys = %d, want 1", r.destroys)
	}
}

func TestDestroyAfterManualRelease(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity("e")
	w.Destroy(e)
	w.ReleaseEntity(e)
	w.FlushDestroyQueue()
	if w.NumEntities() != 0 {
		t.Errorf("NumEntities = %d, want 0", w.NumEntities())
	}
}

type phaseSystem struct {
	phase Phase
	name  string
	log   *[]string
}

func (s *phaseSystem) Phase() Phase { return s.phase }

func (s *phaseSystem) Update(*World, float32) {
	*s.log = append(*s.log, s.name)
}

func TestSystemsRunByPhase(t *testing.T) {
	w := newTestWorld()
	var log []string
	r := AddComponent[recorder](w.CreateEntity("e"))
	r.tag, r.log = "e", &log

	w.AddSystem(&phaseSystem{PhasePostUpdate, "post1", &log})
	w.AddSystem(&phaseSystem{PhasePreUpdate, "pre1", &log})
	w.AddSystem(&phaseSystem{PhasePostUpdate, "post2", &log})
	w.AddSystem(&phaseSystem{PhasePreUpdate, "pre2", &log})

	w.Update(0.1)
	want := []string{"pre1", "pre2", "e update", "post1", "post2"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}

	log = log[:0]
	w.EditingUpdate(0.1)
	if len(log) != 0 {
		t.Errorf("systems ran during EditingUpdate: %v", log)
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	w := newTestWorld()
	core, logs := observer.New(zapcore.InfoLevel)
	w.SetLogger(zap.New(core))

	var log []string
	for _, name := range []string{"a", "b", "c"} {
		r := AddComponent[recorder](w.CreateEntity(name))
		r.tag, r.log = name, &log
	}
	w.Shutdown()

	want := []string{"c destroy", "b destroy", "a destroy"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if w.NumEntities() != 0 || len(w.Components().Types()) != 0 {
		t.Error("world should be empty after Shutdown")
	}
	if logs.FilterMessage("world shut down").Len() != 1 {
		t.Error("Shutdown should log once")
	}

	// The world is usable again.
	e := w.CreateEntity("again")
	AddComponent[Light](e)
	w.Update(0.1)
}

type sinkRecorder struct {
	events []EntityEvent
}

func (s *sinkRecorder) EmitEvent(ev EntityEvent) { s.events = append(s.events, ev) }

func TestEventSinkMirrorsNonTickEvents(t *testing.T) {
	w := newTestWorld()
	sink := &sinkRecorder{}
	w.SetEventSink(sink)
	e := w.CreateEntity("e")
	src := w.CreateEntity("src")

	w.Update(0.1)
	if len(sink.events) != 0 {
		t.Fatalf("tick events reached the sink: %v", sink.events)
	}

	e.Transform().SetPosition(mgl32.Vec3{1, 0, 0})
	if len(sink.events) != 2 || sink.events[0].Kind != EventMove || sink.events[1].Kind != EventTransform {
		t.Fatalf("events = %+v, want Move then Transform", sink.events)
	}
	if sink.events[0].Entity != e.ID() {
		t.Error("event should carry the receiving entity's ID")
	}
	assertVec(t, "Delta", sink.events[0].Delta, mgl32.Vec3{1, 0, 0})

	sink.events = nil
	e.ReceiveEvent(AudioNotification(EventAudioPlay, "a.wav", nil))
	e.ReceiveEvent(AudioNotification(EventAudioPlay, "b.wav", src))
	if !sink.events[0].Global || sink.events[0].Filename != "a.wav" {
		t.Errorf("global audio event = %+v", sink.events[0])
	}
	if sink.events[1].Global || sink.events[1].Other != src.ID() {
		t.Errorf("sourced audio event = %+v", sink.events[1])
	}

	sink.events = nil
	e.SetEnabled(false)
	if len(sink.events) != 1 || sink.events[0].Kind != EventDisable {
		t.Errorf("disable events = %+v", sink.events)
	}
}

func TestInputDefaultsToNop(t *testing.T) {
	w := newTestWorld()
	if _, ok := w.Input().(NopInput); !ok {
		t.Errorf("Input = %T, want NopInput", w.Input())
	}
	in := NewInjectedInput()
	w.SetInput(in)
	if w.Input() != Input(in) {
		t.Error("SetInput not applied")
	}
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	w := newTestWorld()
	w.SetLogger(nil)
	if w.Logger() == nil {
		t.Error("Logger should never be nil")
	}
}

func TestPoolOfSharesRegistry(t *testing.T) {
	w := newTestWorld()
	l := AddComponent[Light](w.CreateEntity("e"))
	all := PoolOf[Light](w).All()
	if len(all) != 1 || all[0] != l {
		t.Errorf("PoolOf[Light].All = %v", all)
	}
}
