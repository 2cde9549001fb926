package checkin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/frontdesk/internal/config"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/testfixtures"
	tuiwizard "github.com/mark3labs/frontdesk/internal/tui/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromBubbles reports whether msg belongs to a bubbles component. Cursor
// blinks and spinner ticks reschedule themselves forever, so the test loop
// drops them.
func fromBubbles(msg tea.Msg) bool {
	return strings.HasPrefix(reflect.TypeOf(msg).PkgPath(), "charm.land/bubbles")
}

// drive feeds the messages produced by cmd back into m until none remain or
// the program quits.
func drive(m *Model, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := testfixtures.Collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if fromBubbles(msg) {
			continue
		}
		seen = append(seen, msg)
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, testfixtures.Collect(next)...)
	}
	return seen
}

func press(m *Model, key tea.KeyPressMsg) []tea.Msg {
	_, cmd := m.Update(key)
	return drive(m, cmd)
}

func newModel(t *testing.T, store *testfixtures.MockStore, pub *testfixtures.MockPublisher, defaultStep string) *Model {
	t.Helper()
	cfg := config.Defaults()
	cfg.Animation = false
	cfg.DefaultStep = defaultStep

	opts := Options{Config: cfg, Store: store}
	if pub != nil {
		opts.Publish = pub.Publish
	}
	m, err := New(context.Background(), opts)
	require.NoError(t, err)

	drive(m, m.Init())
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m
}

func quit(msgs []tea.Msg) bool {
	_, ok := testfixtures.Find[tea.QuitMsg](msgs)
	return ok
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestNew_BadDefaultStepFallsBack(t *testing.T) {
	m := newModel(t, testfixtures.NewMockStore(), nil, "lobby")
	assert.Equal(t, StepPersonal, m.Wizard().Controller().Current())
}

func TestCheckin_CompletesAndPublishes(t *testing.T) {
	store := testfixtures.NewMockStore()
	pub := &testfixtures.MockPublisher{}
	m := newModel(t, store, pub, "")

	assert.Contains(t, ansi.Strip(m.body()), "Guest check-in - Step 1 of 3: Guest")

	fillPersonal(m.personal, "Ada Lovelace", "AB12345", "ada@example.com")
	press(m, testfixtures.Key("enter"))
	require.Equal(t, StepCompanions, m.Wizard().Controller().Current())
	assert.Equal(t, 1, store.ExistsCalls)

	m.companions.form.SetValue(registration.FieldAdults, "2")
	m.companions.form.SetValue(registration.FieldChildren, "1")
	press(m, testfixtures.Key("enter"))
	require.Equal(t, StepConfirm, m.Wizard().Controller().Current())
	assert.True(t, m.confirm.Rendered())
	assert.Contains(t, ansi.Strip(m.body()), "Ada Lovelace")

	msgs := press(m, testfixtures.Key("enter"))
	assert.True(t, quit(msgs))

	res, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", res.Registration.Name)
	assert.Equal(t, 3, res.Registration.Guests())
	assert.NotEmpty(t, res.Registration.ID)
	assert.True(t, strings.HasPrefix(res.Path, "registrations/"))
	assert.NoError(t, res.PublishErr)

	require.Len(t, store.Saved, 1)
	assert.Equal(t, 1, pub.Calls())
}

func TestCheckin_RejectsDuplicate(t *testing.T) {
	store := testfixtures.NewMockStore()
	store.Documents["AB12345"] = true
	m := newModel(t, store, nil, "")

	fillPersonal(m.personal, "Ada Lovelace", "ab 12345", "ada@example.com")
	msgs := press(m, testfixtures.Key("enter"))

	_, rejected := testfixtures.Find[tuiwizard.StepRejectedMsg](msgs)
	assert.True(t, rejected)
	assert.Equal(t, StepPersonal, m.Wizard().Controller().Current())
	assert.Equal(t, duplicateMessage, m.personal.form.Errors()[registration.FieldDocument])
	assert.Contains(t, ansi.Strip(m.body()), "Please review the highlighted fields.")
	assert.Empty(t, store.Saved)
}

func TestCheckin_StoreErrorShowsNotice(t *testing.T) {
	store := testfixtures.NewMockStore()
	store.ExistsError = errors.New("disk unavailable")
	m := newModel(t, store, nil, "")

	fillPersonal(m.personal, "Ada Lovelace", "AB12345", "ada@example.com")
	msgs := press(m, testfixtures.Key("enter"))

	_, failed := testfixtures.Find[tuiwizard.StepErrorMsg](msgs)
	assert.True(t, failed)
	assert.Equal(t, StepPersonal, m.Wizard().Controller().Current())
	assert.Equal(t, "Could not validate this step: disk unavailable", m.Wizard().Notice())
	assert.Empty(t, m.personal.form.Errors())
}

func TestCheckin_SaveFailureCanBeRetried(t *testing.T) {
	store := testfixtures.NewMockStore()
	store.SaveError = errors.New("disk full")
	m := newModel(t, store, nil, StepConfirm)
	fillPersonal(m.personal, "Ada Lovelace", "AB12345", "ada@example.com")

	msgs := press(m, testfixtures.Key("enter"))
	assert.False(t, quit(msgs))
	assert.Contains(t, ansi.Strip(m.body()), "Could not save: disk full")
	_, err := m.Result()
	assert.ErrorIs(t, err, ErrCancelled)

	store.SaveError = nil
	msgs = press(m, testfixtures.Key("enter"))
	assert.True(t, quit(msgs))
	assert.Equal(t, 2, store.SaveCalls)

	res, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", res.Registration.Name)
}

func TestCheckin_IgnoresKeysWhileSaving(t *testing.T) {
	m := newModel(t, testfixtures.NewMockStore(), nil, StepConfirm)

	_, save := m.Update(tuiwizard.CompletedMsg{})
	require.NotNil(t, save)
	assert.Contains(t, ansi.Strip(m.body()), "Saving registration")

	_, cmd := m.Update(testfixtures.Key("esc"))
	assert.Nil(t, cmd)
	assert.Equal(t, StepConfirm, m.Wizard().Controller().Current())

	_, again := m.Update(tuiwizard.CompletedMsg{})
	assert.Nil(t, again, "a second completion does not save twice")

	assert.True(t, quit(drive(m, save)))
}

func TestCheckin_PublishFailureKeepsSave(t *testing.T) {
	store := testfixtures.NewMockStore()
	pub := &testfixtures.MockPublisher{Error: errors.New("broker down")}
	m := newModel(t, store, pub, StepConfirm)
	fillPersonal(m.personal, "Ada Lovelace", "AB12345", "ada@example.com")

	press(m, testfixtures.Key("enter"))

	res, err := m.Result()
	require.NoError(t, err)
	assert.EqualError(t, res.PublishErr, "broker down")
	assert.Len(t, store.Saved, 1)
	assert.Zero(t, pub.Calls())
}

func TestCheckin_CtrlCCancels(t *testing.T) {
	m := newModel(t, testfixtures.NewMockStore(), nil, "")

	_, cmd := m.Update(testfixtures.Key("ctrl+c"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	_, err := m.Result()
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCheckin_BackKeepsValues(t *testing.T) {
	m := newModel(t, testfixtures.NewMockStore(), nil, StepCompanions)
	m.companions.form.SetValue(registration.FieldAdults, "3")

	press(m, testfixtures.Key("esc"))
	assert.Equal(t, StepPersonal, m.Wizard().Controller().Current())

	d := m.Draft()
	assert.Equal(t, 3, d.Adults)
	assert.Empty(t, d.Name)
}

func TestView_CentersBody(t *testing.T) {
	m := newModel(t, testfixtures.NewMockStore(), nil, "")

	v := m.View()
	assert.True(t, v.AltScreen)
}
