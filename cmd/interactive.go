package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/config"
	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/stego"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	imageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

const browseHelp = "Navigate: ↑/↓ | Enter: Open dir / extract image | 'a': Switch algorithm | 'q': Quit"

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type model struct {
	path      string
	files     []fileItem
	cursor    int
	algorithm stego.Algorithm
	status    string
	failed    bool

	// password prompt for the image under the cursor
	prompting bool
	password  textinput.Model

	quitting bool
}

func initialModel(dir string, alg stego.Algorithm) model {
	ti := textinput.New()
	ti.Placeholder = "password (empty for none)"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Cursor.Style = cursorStyle

	m := model{
		path:      dir,
		algorithm: alg,
		status:    browseHelp,
		password:  ti,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status, m.failed = "Error reading directory", true
		return
	}

	m.files = []fileItem{}
	// Parent directory
	m.files = append(m.files, fileItem{name: "..", isDir: true, path: filepath.Dir(m.path)})

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || carrier.Supported(name) {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "a":
			m.algorithm = nextAlgorithm(m.algorithm)
			m.status, m.failed = fmt.Sprintf("Algorithm: %s", m.algorithm), false

		case "enter":
			if len(m.files) == 0 {
				return m, nil
			}
			selected := m.files[m.cursor]
			if selected.isDir {
				m.path = selected.path
				m.loadFiles()
				return m, nil
			}
			m.prompting = true
			m.password.Reset()
			m.status, m.failed = fmt.Sprintf("Password for %s (Esc to cancel)", selected.name), false
			return m, m.password.Focus()
		}

	case statusMsg:
		m.status, m.failed = msg.text, msg.failed
	}

	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompting = false
		m.password.Blur()
		m.status, m.failed = browseHelp, false
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.password.Blur()
		m.status, m.failed = "Extracting...", false
		return m, m.extractSelected(m.password.Value())
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

type statusMsg struct {
	text   string
	failed bool
}

func (m model) extractSelected(password string) tea.Cmd {
	target := m.files[m.cursor].path
	cfg := defaults.Pipeline()
	cfg.Algorithm = m.algorithm
	cfg.Password = config.Password(password)

	return func() tea.Msg {
		text, err := runInteractiveExtract(target, cfg)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), failed: true}
		}
		return statusMsg{text: text}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s    Algorithm: %s\n\n", m.path, m.algorithm)

	for i, file := range m.files {
		if m.cursor == i {
			b.WriteString(cursorStyle.Render(">"))
		} else {
			b.WriteString(" ")
		}

		if file.isDir {
			fmt.Fprintf(&b, " [DIR] %s\n", file.name)
		} else {
			b.WriteString(" " + imageStyle.Render("[IMG] "+file.name) + "\n")
		}
	}

	if m.prompting {
		b.WriteString("\n" + m.password.View() + "\n")
	}

	status := m.status
	if m.failed {
		status = errorStyle.Render(status)
	}
	fmt.Fprintf(&b, "\n%s\n", status)
	return docStyle.Render(b.String())
}

// nextAlgorithm cycles auto, then each algorithm in turn.
func nextAlgorithm(cur stego.Algorithm) stego.Algorithm {
	cycle := append([]stego.Algorithm{pipeline.AlgorithmAuto}, stego.Algorithms...)
	for i, a := range cycle {
		if a == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// runInteractiveExtract recovers the payload hidden in path. A hidden file
// is written next to the image; a short text message is returned for
// display instead.
func runInteractiveExtract(path string, cfg pipeline.Config) (string, error) {
	c, err := loadCarrier(path)
	if err != nil {
		return "", err
	}
	res, err := pipeline.ExtractCarrier(c, cfg)
	if err != nil {
		return "", err
	}

	if res.Header.Filename == "" && len(res.Data) <= 512 && utf8.Valid(res.Data) {
		return fmt.Sprintf("Message: %s", res.Data), nil
	}
	name := safeName(res.Header.Filename, path)

	outPath := filepath.Join(filepath.Dir(path), name)
	if err := checkTarget(outPath, false); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, res.Data, 0644); err != nil {
		return "", err
	}
	logger.Info().Str("image", path).Str("output", outPath).Msg("payload recovered")
	return fmt.Sprintf("Success! Recovered %s (%d bytes)", outPath, len(res.Data)), nil
}

var interactiveAlgorithm string

// Cobra command setup
var interactiveCmd = &cobra.Command{
	Use:   "interactive [directory]",
	Short: "Interactive terminal UI for extracting hidden files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			dir = args[0]
		}

		alg := stego.Algorithm(interactiveAlgorithm)
		if err := checkAlgorithm(alg, true); err != nil {
			return err
		}

		p := tea.NewProgram(initialModel(dir, alg))
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveCmd.Flags().StringVarP(&interactiveAlgorithm, "algorithm", "a", string(pipeline.AlgorithmAuto), "Initial hiding algorithm: auto, lsb or dctlsb")
}
