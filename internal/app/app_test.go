package app

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/model"
	appsync "github.com/nhle/applicant-board/internal/sync"
	"github.com/nhle/applicant-board/internal/ui/command"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	ctrl := board.NewController(nil)
	ctrl.SetLogf(func(string, ...interface{}) {})
	poller := appsync.New(ctrl, nil, time.Hour)

	return New(&model.AppConfig{}, "", nil, ctrl, nil, poller, true)
}

func snapshotApplicants() []model.Applicant {
	return []model.Applicant{
		{ID: "a1", Name: "Ada", Stage: model.StageApplied},
	}
}

func TestCachedSnapshotSeedsBoardBeforeFirstLiveResult(t *testing.T) {
	m := newTestModel(t)

	upd, _ := m.Update(snapshotLoadedMsg{applicants: snapshotApplicants()})
	m = upd.(Model)

	if _, ok := m.boardView.FocusedApplicant(); !ok {
		t.Fatal("expected the cached snapshot to populate the board")
	}
}

func TestCachedSnapshotNeverRepaintsLiveResult(t *testing.T) {
	m := newTestModel(t)

	// An empty live fetch lands first; the board is legitimately empty.
	upd, _ := m.Update(appsync.RefreshResultMsg{})
	m = upd.(Model)

	// A late cache read must not repaint over it.
	upd, _ = m.Update(snapshotLoadedMsg{applicants: snapshotApplicants()})
	m = upd.(Model)

	if _, ok := m.boardView.FocusedApplicant(); ok {
		t.Fatal("stale cache read repainted over a live result")
	}
}

func TestPaletteHintsAreAllExecutable(t *testing.T) {
	for _, hint := range command.Hints() {
		m := newTestModel(t)
		upd, _ := m.executeCommand(hint)
		m = upd.(Model)
		if strings.HasPrefix(m.statusMsg, "unknown command") {
			t.Errorf("palette advertises %q but it does not execute", hint)
		}
	}
}
