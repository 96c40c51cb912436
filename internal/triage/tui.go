// Package triage is the terminal UI for working through fetched offers:
// browse the list, inspect details, and record a triage decision per job.
package triage

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgallez/jobhawk/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	listBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	strengthStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	weaknessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	savedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// statusColors maps each triage status to its list badge color.
var statusColors = map[model.Status]string{
	model.StatusNew:        "39",
	model.StatusInterested: "214",
	model.StatusApplied:    "42",
	model.StatusRejected:   "203",
	model.StatusInterview:  "135",
	model.StatusOffer:      "118",
}

// statusKeys maps a keypress to the status it records.
var statusKeys = map[string]model.Status{
	"n": model.StatusNew,
	"i": model.StatusInterested,
	"a": model.StatusApplied,
	"r": model.StatusRejected,
	"v": model.StatusInterview, // entretien (interview)
	"f": model.StatusOffer,     // offre finale
}

type triageModel struct {
	jobs   []model.JobOffer
	store  model.StatusStore
	cursor int
	offset int // first visible list item
	width  int
	height int
	ready  bool

	view           viewState
	detailViewport viewport.Model

	flash string // transient feedback line (saved / error)
}

// Run starts the triage UI over an already-fetched job list. Status changes
// are written through the store immediately.
func Run(jobs []model.JobOffer, store model.StatusStore) error {
	m := triageModel{jobs: jobs, store: store}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m triageModel) Init() tea.Cmd {
	return nil
}

func (m triageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detailViewport = viewport.New(msg.Width-4, msg.Height-8)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m triageModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.jobs)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.jobs) > 0 {
			m.view = viewDetail
			m.detailViewport.SetContent(m.detailContent(m.jobs[m.cursor]))
			m.detailViewport.GotoTop()
		}

	case "o":
		if len(m.jobs) > 0 {
			openInBrowser(m.jobs[m.cursor].URL)
		}

	default:
		if status, ok := statusKeys[msg.String()]; ok {
			m = m.setStatus(status)
		}
	}

	m = m.clampScroll()
	return m, nil
}

func (m triageModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = viewList
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "o":
		openInBrowser(m.jobs[m.cursor].URL)
		return m, nil
	}

	if status, ok := statusKeys[msg.String()]; ok {
		m = m.setStatus(status)
		m.detailViewport.SetContent(m.detailContent(m.jobs[m.cursor]))
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// setStatus records a triage decision for the job under the cursor.
func (m triageModel) setStatus(status model.Status) triageModel {
	if len(m.jobs) == 0 {
		return m
	}

	job := &m.jobs[m.cursor]
	if err := m.store.Save(job.ID, status); err != nil {
		m.flash = errorStyle.Render(fmt.Sprintf("save failed: %v", err))
		return m
	}
	job.Status = status
	m.flash = savedStyle.Render(fmt.Sprintf("%s → %s", job.Title, status))
	return m
}

func (m triageModel) visibleRows() int {
	rows := (m.height - 5) / jobItemHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m triageModel) clampScroll() triageModel {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	return m
}

func (m triageModel) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.view == viewDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m triageModel) listView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Triage — %d offres", len(m.jobs))))
	b.WriteString("\n")

	if len(m.jobs) == 0 {
		b.WriteString(jobSubtitleStyle.Render("  Aucune offre récupérée."))
		b.WriteString("\n")
	}

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.jobs) {
		end = len(m.jobs)
	}

	for i := m.offset; i < end; i++ {
		j := m.jobs[i]
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color(statusColors[j.Status])).
			Render("[" + string(j.Status) + "]")

		title := fmt.Sprintf("%s %s", badge, j.Title)
		subtitle := fmt.Sprintf("    %s · %s · fit %d%% · %s", j.Company, j.Location, j.FitScore, j.Date.Format("02/01"))

		if i == m.cursor {
			b.WriteString(selectedJobTitleStyle.Render("> " + title))
			b.WriteString("\n")
			b.WriteString(selectedJobSubtitleStyle.Render(subtitle))
		} else {
			b.WriteString(jobTitleStyle.Render("  " + title))
			b.WriteString("\n")
			b.WriteString(jobSubtitleStyle.Render(subtitle))
		}
		b.WriteString("\n\n")
	}

	if m.flash != "" {
		b.WriteString(m.flash)
		b.WriteString("\n")
	}

	b.WriteString(statusBarStyle.Render("j/k naviguer  enter détail  o ouvrir  n/i/a/r/v/f statut  q quitter"))
	return b.String()
}

func (m triageModel) detailView() string {
	j := m.jobs[m.cursor]

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(j.Title))
	b.WriteString("\n")
	b.WriteString(m.detailViewport.View())
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render("esc retour  o ouvrir  n/i/a/r/v/f statut  ↑/↓ défiler"))
	return b.String()
}

func (m triageModel) detailContent(j model.JobOffer) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Entreprise", j.Company)
	row("Lieu", fmt.Sprintf("%s (%s)", j.Location, j.Scope))
	row("Publié", j.Date.Format("02/01/2006 15:04"))
	row("Source", j.Source)
	row("Statut", string(j.Status))
	row("Fit", fmt.Sprintf("%d%%", j.FitScore))
	row("URL", j.URL)
	b.WriteString("\n")

	for _, s := range j.Strengths {
		b.WriteString(strengthStyle.Render("+ " + s))
		b.WriteString("\n")
	}
	for _, w := range j.Weaknesses {
		b.WriteString(weaknessStyle.Render("- " + w))
		b.WriteString("\n")
	}
	if len(j.Strengths)+len(j.Weaknesses) > 0 {
		b.WriteString("\n")
	}

	if len(j.Requirements) > 0 {
		b.WriteString(detailLabelStyle.Render("Exigences"))
		b.WriteString("\n")
		for _, r := range j.Requirements {
			b.WriteString("  · " + r + "\n")
		}
		b.WriteString("\n")
	}

	if j.Summary != "" {
		b.WriteString(j.Summary)
		b.WriteString("\n\n")
	}
	if j.Description != "" && j.Description != j.Summary {
		b.WriteString(j.Description)
		b.WriteString("\n")
	}

	if j.SearchIntent {
		b.WriteString(hintStyle.Render("\nLien de recherche pré-construit — pas une offre unique.\n"))
	}

	return b.String()
}

// openInBrowser is best-effort; triage continues even if it fails.
func openInBrowser(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
