package views

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/session"
)

func testSession() session.Session {
	return session.Session{Token: "abc.def.ghi", Email: "a@b.com"}
}

func kindByName(t *testing.T, kinds []api.Kind, name string) api.Kind {
	t.Helper()
	for _, k := range kinds {
		if k.Name == name {
			return k
		}
	}
	t.Fatalf("kind %q not found", name)
	return api.Kind{}
}

// runCmd executes a command tree and returns all produced messages,
// flattening batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// feedLoad runs the view's pending fetch for its current generation and
// applies the result.
func feedLoad(t *testing.T, v *ResourceView) {
	t.Helper()
	for _, msg := range runCmd(v.load(v.gen)) {
		v.Update(msg)
	}
}

type countingTransport struct {
	calls int
}

func (tr *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	tr.calls++
	return nil, errors.New("unexpected network call")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestResourceView_LoadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""}]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	require.Equal(t, phaseIdle, v.phase)
	v.Activate()
	require.Equal(t, phaseLoading, v.phase)

	feedLoad(t, v)
	require.Equal(t, phaseLoaded, v.phase)
	require.Len(t, v.Rows(), 1)
	require.Equal(t, "m1", v.Rows()[0].ID)
}

func TestResourceView_LoadFailureKeepsRowsAndSetsOneError(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""}]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Activate()
	feedLoad(t, v)
	require.Len(t, v.Rows(), 1)

	fail = true
	v.Activate()
	require.Empty(t, v.errMsg)
	feedLoad(t, v)

	require.Equal(t, phaseFailed, v.phase)
	require.Equal(t, "boom", v.errMsg)
	// The previously displayed collection is untouched.
	require.Len(t, v.Rows(), 1)
}

func TestResourceView_StaleGenerationDiscarded(t *testing.T) {
	payload := `[{"_id":"old","name":"Old","userId":""}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	// First activation: fetch completes but its result is delayed.
	v.Activate()
	staleGen := v.gen
	staleCmd := v.load(staleGen)
	staleMsgs := runCmd(staleCmd)

	// User re-activates; the fresh fetch lands first.
	payload = `[{"_id":"new","name":"New","userId":""}]`
	v.Activate()
	feedLoad(t, v)
	require.Equal(t, "new", v.Rows()[0].ID)

	// The late response from the earlier generation must be discarded.
	for _, msg := range staleMsgs {
		v.Update(msg)
	}
	require.Len(t, v.Rows(), 1)
	require.Equal(t, "new", v.Rows()[0].ID)
}

func TestResourceView_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	transport := &countingTransport{}
	c := api.New("http://unused", &http.Client{Transport: transport}, nil)
	kind := kindByName(t, api.Kinds(nil), "client")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Update(keyRune('n'))
	require.True(t, v.Creating())

	for i, f := range kind.Fields {
		switch f.Name {
		case "number":
			v.inputs[i].SetValue("12a")
		case "cif":
			v.inputs[i].SetValue("A1234")
		default:
			v.inputs[i].SetValue("x")
		}
	}

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Nil(t, cmd)
	require.NotEmpty(t, v.formErr)
	require.Zero(t, transport.calls)
	require.True(t, v.Creating())
}

func TestResourceView_CreateThenRefetchShowsServerItem(t *testing.T) {
	created := false
	var listCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created = true
			w.Write([]byte(`{"_id":"m2","name":"Sand","userId":""}`))
			return
		}
		listCalls++
		if created {
			w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""},{"_id":"m2","name":"Sand","userId":""}]`))
			return
		}
		w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""}]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Activate()
	feedLoad(t, v)
	require.Len(t, v.Rows(), 1)

	v.Update(keyRune('n'))
	v.inputs[0].SetValue("Sand")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, v.submitting)
	for _, msg := range runCmd(cmd) {
		v.Update(msg)
	}

	// Create succeeded: form closed, draft reset, collection refetched.
	require.False(t, v.Creating())
	require.Empty(t, v.inputs[0].Value())
	require.Equal(t, phaseLoading, v.phase)

	feedLoad(t, v)
	require.Len(t, v.Rows(), 2)
	require.Equal(t, "m2", v.Rows()[1].ID)
	require.Equal(t, 2, listCalls)
}

func TestResourceView_AppendPolicySkipsRefetch(t *testing.T) {
	var listCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"_id":"m2","name":"Sand","userId":""}`))
			return
		}
		listCalls++
		w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""}]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{
		"material": {CreatePolicy: api.PolicyAppend},
	}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Activate()
	feedLoad(t, v)

	v.Update(keyRune('n'))
	v.inputs[0].SetValue("Sand")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range runCmd(cmd) {
		v.Update(msg)
	}

	require.False(t, v.Creating())
	require.Len(t, v.Rows(), 2)
	require.Equal(t, "m2", v.Rows()[1].ID)
	require.Equal(t, 1, listCalls)
}

func TestResourceView_CreateFailureKeepsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"material already exists"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Activate()
	feedLoad(t, v)

	v.Update(keyRune('n'))
	v.inputs[0].SetValue("Cement")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range runCmd(cmd) {
		v.Update(msg)
	}

	// The form stays open with the user's input intact.
	require.True(t, v.Creating())
	require.Equal(t, "Cement", v.inputs[0].Value())
	require.Equal(t, "material already exists", v.formErr)
	require.False(t, v.submitting)
}

func TestResourceView_SubmitDisabledWhilePending(t *testing.T) {
	transport := &countingTransport{}
	c := api.New("http://unused", &http.Client{Transport: transport}, nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Update(keyRune('n'))
	v.inputs[0].SetValue("Cement")
	v.submitting = true

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Nil(t, cmd)
	require.Zero(t, transport.calls)
}

func TestResourceView_ReactivationYieldsSameCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"m1","name":"Cement","userId":""},{"_id":"m2","name":"Sand","userId":""}]`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client(), nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Activate()
	feedLoad(t, v)
	first := append([]api.Row(nil), v.Rows()...)

	v.Activate()
	feedLoad(t, v)
	require.Equal(t, first, v.Rows())
}

func TestResourceView_UnauthenticatedListFails(t *testing.T) {
	transport := &countingTransport{}
	c := api.New("http://unused", &http.Client{Transport: transport}, nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, session.Session{}, kind, nil)

	v.Activate()
	feedLoad(t, v)

	require.Equal(t, phaseFailed, v.phase)
	require.Equal(t, "You are not logged in.", v.errMsg)
	require.Zero(t, transport.calls)
}

func TestResourceView_CancelDiscardsDraft(t *testing.T) {
	c := api.New("http://unused", &http.Client{}, nil)
	kind := kindByName(t, api.Kinds(map[string]api.KindOptions{"material": {}}), "material")
	v := NewResourceView(c, testSession(), kind, nil)

	v.Update(keyRune('n'))
	v.inputs[0].SetValue("Cement")

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, v.Creating())

	v.Update(keyRune('n'))
	require.Empty(t, v.inputs[0].Value())
}
