// Package tui is the terminal dashboard. It holds a dashboard.State and
// advances it only through dashboard.Reduce, on bubbletea's update loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/dashboard"
	"github.com/sells-group/adtarget-cli/internal/export"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
	"github.com/sells-group/adtarget-cli/internal/scoring"
)

const helpText = "r run · x clear · +/- threshold · ]/[ top-k · e explain · j/v/s export json/csv/xlsx · y copy · q quit"

// runDoneMsg carries a scoring completion back to the update loop.
type runDoneMsg struct {
	runID string
	c     scoring.Completion
}

// exportDoneMsg reports the outcome of a file export.
type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctx       context.Context
	state     dashboard.State
	source    scoring.Source
	writer    *export.Writer
	clipboard export.Clipboard
	now       func() time.Time

	spinner  spinner.Model
	viewport viewport.Model
	styles   Styles
	status   string
}

// New returns a dashboard model. Runs are bounded by ctx.
func New(ctx context.Context, src scoring.Source, p dashboard.Params, w *export.Writer, cb export.Clipboard) Model {
	styles := DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	m := Model{
		ctx:       ctx,
		state:     dashboard.NewState(p),
		source:    src,
		writer:    w,
		clipboard: cb,
		now:       time.Now,
		spinner:   sp,
		viewport:  vp,
		styles:    styles,
	}
	m.refresh()
	return m
}

// WithUpload returns m with up selected as the history file.
func (m Model) WithUpload(up *model.Upload) Model {
	return m.dispatch(dashboard.SelectUpload{Upload: up})
}

// State returns the current dashboard snapshot.
func (m Model) State() dashboard.State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		// Header, params, status and help lines.
		m.viewport.Height = max(msg.Height-8, 3)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case runDoneMsg:
		return m.finishRun(msg), nil

	case exportDoneMsg:
		m.status = exportStatus(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state.Busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.state.Params
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m.startRun()
	case "x":
		m = m.dispatch(dashboard.Clear{})
		m.status = "Cleared."
	case "+", "=":
		m = m.dispatch(dashboard.SetThreshold{Value: predict.RoundLikelihood(p.Threshold + dashboard.ThresholdStep)})
	case "-":
		m = m.dispatch(dashboard.SetThreshold{Value: predict.RoundLikelihood(p.Threshold - dashboard.ThresholdStep)})
	case "]":
		m = m.dispatch(dashboard.SetTopK{Value: p.TopK + 1})
	case "[":
		m = m.dispatch(dashboard.SetTopK{Value: p.TopK - 1})
	case "e":
		m = m.dispatch(dashboard.ToggleExplain{})
	case "j":
		return m, m.exportCmd(predict.FormatJSON)
	case "v":
		return m, m.exportCmd(predict.FormatCSV)
	case "s":
		return m, m.exportCmd(predict.FormatXLSX)
	case "y":
		m.status = m.copy()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) dispatch(a dashboard.Action) Model {
	m.state = dashboard.Reduce(m.state, a)
	m.refresh()
	return m
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	if m.state.Busy {
		m.status = "A prediction is already running."
		return m, nil
	}

	id := uuid.New().String()
	m = m.dispatch(dashboard.RunStarted{RunID: id, At: m.now()})
	m.status = ""

	ctx, src := m.ctx, m.source
	req := scoring.Request{SubjectID: m.state.InFlight.Params.SubjectID}
	run := func() tea.Msg {
		c := <-scoring.Start(ctx, src, req).Done()
		return runDoneMsg{runID: id, c: c}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) finishRun(msg runDoneMsg) Model {
	in := m.state.InFlight
	if !m.state.Busy || in == nil || in.RunID != msg.runID {
		return m
	}

	if msg.c.Err != nil {
		m = m.dispatch(dashboard.RunFailed{RunID: msg.runID, Err: msg.c.Err})
		m.status = "Prediction failed: " + msg.c.Err.Error()
		zap.L().Warn("tui: run failed", zap.String("run_id", msg.runID), zap.Error(msg.c.Err))
		return m
	}
	m = m.dispatch(dashboard.RunCompleted{RunID: msg.runID, Result: msg.c.Result})
	m.status = fmt.Sprintf("%d categories above threshold.", len(m.state.Result.Categories))
	return m
}

func (m Model) exportCmd(f predict.Format) tea.Cmd {
	res, w := m.state.Result, m.writer
	return func() tea.Msg {
		if res == nil {
			return exportDoneMsg{err: apperr.ErrNoResult}
		}
		path, err := w.Write(res, f)
		return exportDoneMsg{path: path, err: err}
	}
}

func exportStatus(msg exportDoneMsg) string {
	switch {
	case errors.Is(msg.err, apperr.ErrNoResult):
		return "Nothing to export yet."
	case msg.err != nil:
		return "Export failed: " + msg.err.Error()
	default:
		return "Saved " + msg.path
	}
}

func (m Model) copy() string {
	copied, err := export.Copy(m.clipboard, m.state.Result)
	switch {
	case errors.Is(err, apperr.ErrNoResult):
		return "Nothing to copy yet."
	case err != nil:
		return "Copy failed: " + err.Error()
	case !copied:
		return "Clipboard unavailable."
	default:
		return "Copied JSON to clipboard."
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderResult(m.state.Result, m.state.Params.Explain, m.styles))
}

// View implements tea.Model.
func (m Model) View() string {
	st := m.styles
	p := m.state.Params

	var sb strings.Builder
	sb.WriteString(st.Title.Render("Ad Targeting Dashboard"))
	sb.WriteString("\n")

	explain := "off"
	if p.Explain {
		explain = "on"
	}
	fmt.Fprintf(&sb, "%s %s  %s %.2f  %s %d  %s %s\n",
		st.Label.Render("Subject:"), st.Value.Render(p.SubjectID),
		st.Label.Render("Threshold:"), p.Threshold,
		st.Label.Render("Top-K:"), p.TopK,
		st.Label.Render("Explain:"), explain,
	)
	if up := m.state.Upload; up != nil {
		fmt.Fprintf(&sb, "%s %s (%s, %d bytes)\n", st.Label.Render("Upload:"), up.Name, up.Format, up.Size)
	}

	switch {
	case m.state.Busy:
		sb.WriteString(m.spinner.View() + st.Status.Render(" Scoring..."))
	case m.status != "":
		sb.WriteString(st.Status.Render(m.status))
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n\n")
	sb.WriteString(st.Help.Render(helpText))
	return sb.String()
}
