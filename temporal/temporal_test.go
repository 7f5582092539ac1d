package temporal

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/access"
	"github.com/gogpu/framegraph/rg"
)

func historyImage(label string) *rg.Image {
	return rg.NewImage(gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(1920, 1080),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA16Float,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc,
	})
}

// mustPanic runs fn and fails the test unless it panics with a message
// containing want.
func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want message containing %q", r, want)
		}
	}()
	fn()
}

// runFrame imports, uses and exports t in a fresh graph, executes it and
// retires t. It returns the retired graph.
func runFrame(t *testing.T, res *Resource[*rg.Image], write, export access.Type) *rg.Retired {
	t.Helper()
	g := rg.New("frame")
	h := Import(g, res)
	if err := g.AddPass("accumulate", rg.Write(h, write)); err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	Export(g, h, res, export)
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	Retire(rt, res)
	return rt
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateDefault, "Default"},
		{StateImported, "Imported"},
		{StateExported, "Exported"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	img := historyImage("history")
	res := New(img)

	if res.Resource() != img {
		t.Error("Resource() returned a different image")
	}
	if res.State() != StateDefault {
		t.Errorf("State() = %v, want Default", res.State())
	}
	if res.AccessType() != access.Nothing {
		t.Errorf("AccessType() = %v, want Nothing", res.AccessType())
	}
	if _, ok := res.LastExportedHandle(); ok {
		t.Error("new resource should have no exported handle")
	}
}

func TestImportUsesStoredAccess(t *testing.T) {
	res := New(historyImage("history"))
	res.accessType = access.FragmentShaderReadSampledImage

	g := rg.New("frame")
	h := Import(g, res)
	if res.State() != StateImported {
		t.Fatalf("State() = %v, want Imported", res.State())
	}
	if res.AccessType() != access.FragmentShaderReadSampledImage {
		t.Error("Import must not change the access type")
	}
	if _, ok := res.LastExportedHandle(); ok {
		t.Error("Import must not set an exported handle")
	}

	if err := g.AddPass("draw", rg.Write(h, access.ColorAttachmentWrite)); err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	b := rt.Barriers()
	if len(b) != 1 || b[0].From != access.FragmentShaderReadSampledImage {
		t.Errorf("entry barrier = %v, want one from fragment-shader-read-sampled-image", b)
	}
}

func TestExport(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	h := Import(g, res)
	eh := Export(g, h, res, access.FragmentShaderReadSampledImage)

	if res.State() != StateExported {
		t.Errorf("State() = %v, want Exported", res.State())
	}
	got, ok := res.LastExportedHandle()
	if !ok || got != eh {
		t.Errorf("LastExportedHandle() = %v, %v; want the handle returned by Export", got, ok)
	}
	if res.AccessType() != access.Nothing {
		t.Error("Export must not change the access type")
	}
}

func TestExportWithoutImportPanics(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	other := New(historyImage("other"))
	h := Import(g, other)

	mustPanic(t, "export of \"history\" requires state Imported, got Default", func() {
		Export(g, h, res, access.TransferRead)
	})
	if res.State() != StateDefault {
		t.Errorf("failed export changed state to %v", res.State())
	}
}

func TestDoubleExportPanics(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	h := Import(g, res)
	Export(g, h, res, access.TransferRead)

	mustPanic(t, "requires state Imported, got Exported", func() {
		Export(g, h, res, access.TransferRead)
	})
}

func TestDoubleImportPanics(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	Import(g, res)

	mustPanic(t, "import of \"history\" requires state Default, got Imported", func() {
		Import(rg.New("second"), res)
	})
}

func TestRetireWithoutExportIsNoop(t *testing.T) {
	orig := framegraph.Logger()
	t.Cleanup(func() { framegraph.SetLogger(orig) })
	var buf bytes.Buffer
	framegraph.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	res := New(historyImage("history"))
	g := rg.New("frame")
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	buf.Reset()
	Retire(rt, res)
	first := *res
	Retire(rt, res)

	if *res != first {
		t.Error("second no-op retire changed the resource")
	}
	if res.State() != StateDefault || res.AccessType() != access.Nothing {
		t.Errorf("no-op retire changed state: %v, %v", res.State(), res.AccessType())
	}
	if buf.Len() != 0 {
		t.Errorf("no-op retire logged: %s", buf.String())
	}
}

func TestRetireImportedWithoutExportIsNoop(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	Import(g, res)
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	Retire(rt, res)
	if res.State() != StateImported {
		t.Errorf("State() = %v, want Imported to be left alone", res.State())
	}
}

func TestRetireWithPendingHandleInWrongStatePanics(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("frame")
	h := Import(g, res)
	Export(g, h, res, access.TransferRead)
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	res.state = StateImported
	mustPanic(t, "retire of \"history\" requires state Exported, got Imported", func() {
		Retire(rt, res)
	})
}

func TestRoundTrip(t *testing.T) {
	res := New(historyImage("history"))
	res.accessType = access.TransferRead

	rt := runFrame(t, res, access.ColorAttachmentWrite, access.FragmentShaderReadSampledImage)

	if res.AccessType() != access.FragmentShaderReadSampledImage {
		t.Errorf("AccessType() = %v, want fragment-shader-read-sampled-image", res.AccessType())
	}
	if res.State() != StateDefault {
		t.Errorf("State() = %v, want Default", res.State())
	}
	if _, ok := res.LastExportedHandle(); ok {
		t.Error("Retire must clear the exported handle")
	}
	if n := len(rt.Barriers()); n != 2 {
		t.Errorf("got %d barriers, want 2 (entry and export)", n)
	}
}

func TestSecondFrameStartsFromRetiredAccess(t *testing.T) {
	res := New(historyImage("history"))
	runFrame(t, res, access.ColorAttachmentWrite, access.FragmentShaderReadSampledImage)

	g := rg.New("frame-2")
	h := Import(g, res)
	if err := g.AddPass("sample", rg.Read(h, access.FragmentShaderReadSampledImage)); err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	Export(g, h, res, access.FragmentShaderReadSampledImage)
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	Retire(rt, res)

	if n := len(rt.Barriers()); n != 0 {
		t.Errorf("got barriers %v, want none: the history was already readable", rt.Barriers())
	}
}

func TestRetireTwiceAfterExport(t *testing.T) {
	res := New(historyImage("history"))
	rt := runFrame(t, res, access.ColorAttachmentWrite, access.TransferRead)

	Retire(rt, res)
	if res.State() != StateDefault || res.AccessType() != access.TransferRead {
		t.Errorf("second retire changed the resource: %v, %v", res.State(), res.AccessType())
	}
}

func TestFrameSequence(t *testing.T) {
	res := New(historyImage("history"))
	used := []bool{true, true, false, true, false, false, true, true, false, true}

	want := access.Nothing
	for frame, use := range used {
		g := rg.New("frame")
		if use {
			h := Import(g, res)
			if err := g.AddPass("accumulate", rg.Write(h, access.ColorAttachmentWrite)); err != nil {
				t.Fatalf("frame %d: AddPass: %v", frame, err)
			}
			Export(g, h, res, access.FragmentShaderReadSampledImage)
			want = access.FragmentShaderReadSampledImage
		}
		rt, err := g.Execute()
		if err != nil {
			t.Fatalf("frame %d: Execute: %v", frame, err)
		}
		Retire(rt, res)

		if res.State() != StateDefault {
			t.Fatalf("frame %d: State() = %v, want Default", frame, res.State())
		}
		if res.AccessType() != want {
			t.Fatalf("frame %d: AccessType() = %v, want %v", frame, res.AccessType(), want)
		}
	}
}

func TestResetStrandedResource(t *testing.T) {
	orig := framegraph.Logger()
	t.Cleanup(func() { framegraph.SetLogger(orig) })
	var buf bytes.Buffer
	framegraph.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	res := New(historyImage("history"))
	runFrame(t, res, access.ColorAttachmentWrite, access.TransferRead)

	// Abandon a build after import.
	Import(rg.New("abandoned"), res)
	res.Reset()

	if res.State() != StateDefault {
		t.Errorf("State() = %v, want Default", res.State())
	}
	if res.AccessType() != access.TransferRead {
		t.Errorf("Reset changed the access type to %v", res.AccessType())
	}
	if !strings.Contains(buf.String(), "stranded") {
		t.Errorf("Reset of a stranded resource should warn, got %q", buf.String())
	}

	// The resource is usable again.
	runFrame(t, res, access.ColorAttachmentWrite, access.FragmentShaderReadSampledImage)
	if res.AccessType() != access.FragmentShaderReadSampledImage {
		t.Errorf("AccessType() = %v after reuse", res.AccessType())
	}
}

func TestResetIdleIsSilent(t *testing.T) {
	orig := framegraph.Logger()
	t.Cleanup(func() { framegraph.SetLogger(orig) })
	var buf bytes.Buffer
	framegraph.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	New(historyImage("history")).Reset()
	if buf.Len() != 0 {
		t.Errorf("Reset of an idle resource logged: %s", buf.String())
	}
}

func TestBufferResource(t *testing.T) {
	buf := rg.NewBuffer(gputypes.BufferDescriptor{
		Label: "reservoirs",
		Size:  4 << 20,
		Usage: gputypes.BufferUsageStorage,
	})
	res := New(buf)

	g := rg.New("frame")
	h := Import(g, res)
	if err := g.AddPass("resample", rg.Write(h, access.ComputeShaderWrite)); err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	Export(g, h, res, access.ComputeShaderReadOther)
	rt, err := g.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	Retire(rt, res)

	if res.AccessType() != access.ComputeShaderReadOther {
		t.Errorf("AccessType() = %v, want compute-shader-read-other", res.AccessType())
	}
	if res.Resource().Desc().Size != 4<<20 {
		t.Error("buffer descriptor lost")
	}
}

func TestRetireForeignGraphPanics(t *testing.T) {
	res := New(historyImage("history"))
	g := rg.New("main")
	h := Import(g, res)
	Export(g, h, res, access.TransferRead)

	other := rg.New("async")
	rt, err := other.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	mustPanic(t, "does not belong", func() { Retire(rt, res) })
	if res.State() != StateExported {
		t.Errorf("state after failed retire = %v, want Exported", res.State())
	}
}
