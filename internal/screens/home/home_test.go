package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/router"
	"github.com/abhisek/ecoquest/internal/screen"
	"github.com/abhisek/ecoquest/internal/screen/screentest"
	"github.com/abhisek/ecoquest/internal/screens/gallery"
	"github.com/abhisek/ecoquest/internal/screens/levels"
)

func loadedHome(t *testing.T) *HomeScreen {
	t.Helper()
	h := New(screentest.New(t).Env)
	_, cmd := h.Update(h.Init()())
	if h.profile == nil {
		t.Fatalf("profile not loaded: %q", h.errMsg)
	}
	if _, ok := cmd().(screen.ProfileMsg); !ok {
		t.Error("expected the loaded profile to be announced")
	}
	return h
}

func TestHomeListsTopics(t *testing.T) {
	h := loadedHome(t)

	if got, want := len(h.menu.Items), len(catalog.All())+2; got != want {
		t.Fatalf("menu items = %d, want %d", got, want)
	}
	view := h.View(100, 30)
	for _, topic := range catalog.All() {
		if !strings.Contains(view, topic.Title) {
			t.Errorf("view missing topic %q", topic.Title)
		}
	}
	if !strings.Contains(view, "0/50 lessons") {
		t.Error("expected topic progress detail")
	}
	if !strings.Contains(view, "Hi Robin") {
		t.Error("expected greeting with the learner's name")
	}
}

func TestHomeOpensTopic(t *testing.T) {
	h := loadedHome(t)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*levels.LevelsScreen); !ok {
		t.Errorf("expected levels screen, got %T", push.Screen)
	}
}

func TestHomeOpensGallery(t *testing.T) {
	h := loadedHome(t)
	h.menu.Selected = len(catalog.All())
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*gallery.GalleryScreen); !ok {
		t.Errorf("expected gallery screen, got %T", push.Screen)
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		streak int
		want   MascotVariant
	}{
		{0, MascotSleepy},
		{1, MascotIdle},
		{2, MascotIdle},
		{3, MascotCelebrating},
		{30, MascotCelebrating},
	}
	for _, tt := range tests {
		if got := mascotFor(tt.streak); got != tt.want {
			t.Errorf("mascotFor(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}
}
