package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/views/chapters"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/views/passage"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles

	menuView     *menu.View
	searchView   *search.View
	passageView  *passage.View
	chaptersView *chapters.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		searchView:   search.NewView(s, km, ports.Retrieval),
		passageView:  passage.NewView(s, km),
		chaptersView: chapters.NewView(s, km, ports.Analysis),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.chaptersView.WithContext(ctx)
	return a
}

// WithSearchK sets the number of passages each search returns.
func (a *App) WithSearchK(k int) *App {
	a.searchView.WithK(k)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("novelrag"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			// Returning from a passage keeps the result list.
			if len(a.searchView.Results()) == 0 {
				a.searchView.Reset()
			}
			return a, a.searchView.Init()
		case messages.ViewChapters:
			return a, tea.Batch(a.chaptersView.Reset(), a.chaptersView.Init())
		case messages.ViewMenu:
			a.searchView.Reset()
		case messages.ViewPassage, messages.ViewHelp:
		}
		return a, nil

	case messages.PassageSelected:
		a.passageView.SetResult(msg.Result)
		a.currentView = messages.ViewPassage
		return a, nil

	case messages.SearchCompleted:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ChaptersLoaded:
		a.err = msg.Err
		a.chaptersView, cmd = a.chaptersView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewPassage:
		a.passageView, cmd = a.passageView.Update(msg)
	case messages.ViewChapters:
		a.chaptersView, cmd = a.chaptersView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "加载中..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewPassage:
		return a.passageView.View()
	case messages.ViewChapters:
		return a.chaptersView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("帮助") + `

通用:
  esc         返回
  ctrl+c      退出

菜单:
  j/k, ↑/↓    选择选项
  enter       确认
  q           退出

检索:
  (输入)      问题或短语
  enter       开始检索

结果:
  j/k, ↑/↓    浏览结果
  enter       查看段落
  n           新检索
  c           人物章节

段落:
  j/k, ↑/↓    滚动
  pgup/pgdn   翻页
  g/G         顶部/底部

人物章节:
  (输入)      人物名称，留空使用默认人物
  enter       查找章节
  n           换个人物

` + a.styles.Help.Render("esc 返回菜单")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Results returns the current search results.
func (a *App) Results() []domain.RetrievalResult {
	return a.searchView.Results()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.passageView.SetDimensions(width, height)
	a.chaptersView.SetDimensions(width, height)
}
