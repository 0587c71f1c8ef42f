package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/blog"
	"github.com/jask/monkblog/internal/config"
	"github.com/jask/monkblog/internal/service"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	maxFormWidth  = 72
	formRows      = 10
)

// App is the root model: blog list, detail pane and the create dialog.
type App struct {
	ctx      context.Context
	services Services
	cfg      config.Config
	log      *zap.Logger
	now      func() time.Time

	tz         *time.Location
	dateFormat string
	pageSize   int
	breakpoint int

	keys   keyMap
	styles styles

	width  int
	height int

	blogs           []blog.Blog
	listLoaded      bool
	listFromNetwork bool
	listErr         error

	selectedID      string
	manualSelection bool
	detail          *blog.Blog
	detailLoading   bool

	page   int // 1-based
	cursor int // index within the current page

	dialogOpen bool
	form       *createForm

	spinner  spinner.Model
	spinning bool
	viewport viewport.Model
	help     help.Model
}

// Services are the collaborators the TUI loads and saves blogs through.
type Services struct {
	Blogs *service.BlogService
}

type (
	blogsLoadedMsg struct{ blogs []blog.Blog }
	blogsFailedMsg struct{ err error }
	snapshotMsg    struct{ blogs []blog.Blog }
	blogLoadedMsg  struct {
		id   string
		blog blog.Blog
	}
	blogFailedMsg struct {
		id  string
		err error
	}
	blogCreatedMsg  struct{ blog blog.Blog }
	createFailedMsg struct{ err error }
)

// New builds the root model. A nil logger or timezone falls back to a no-op
// logger and the local zone.
func New(ctx context.Context, cfg config.Config, services Services, logger *zap.Logger, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.UI.PageSize
	if pageSize <= 0 {
		pageSize = config.Default().UI.PageSize
	}
	dateFormat := cfg.UI.DateFormat
	if dateFormat == "" {
		dateFormat = config.Default().UI.DateFormat
	}
	breakpoint := cfg.UI.WideBreakpoint
	if breakpoint <= 0 {
		breakpoint = config.Default().UI.WideBreakpoint
	}
	st := defaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.accent))
	a := &App{
		ctx:        ctx,
		services:   services,
		cfg:        cfg,
		log:        logger,
		now:        time.Now,
		tz:         tz,
		dateFormat: dateFormat,
		pageSize:   pageSize,
		breakpoint: breakpoint,
		keys:       defaultKeys(),
		styles:     st,
		page:       1,
		spinner:    sp,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
	}
	a.form = newCreateForm(maxFormWidth, formRows)
	a.resize(defaultWidth, defaultHeight)
	return a
}

func (a *App) Init() tea.Cmd {
	a.spinning = true
	return tea.Batch(a.spinner.Tick, a.loadSnapshot(), a.loadBlogs())
}

func (a *App) loadBlogs() tea.Cmd {
	return func() tea.Msg {
		blogs, err := a.services.Blogs.List(a.ctx)
		if err != nil {
			return blogsFailedMsg{err}
		}
		return blogsLoadedMsg{blogs}
	}
}

func (a *App) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		blogs, ok := a.services.Blogs.Snapshot(a.ctx)
		if !ok {
			return nil
		}
		return snapshotMsg{blogs}
	}
}

func (a *App) loadBlog(id string) tea.Cmd {
	return func() tea.Msg {
		b, err := a.services.Blogs.Get(a.ctx, id)
		if err != nil {
			return blogFailedMsg{id: id, err: err}
		}
		return blogLoadedMsg{id: id, blog: b}
	}
}

func (a *App) createCmd(d blog.Draft) tea.Cmd {
	return func() tea.Msg {
		b, err := a.services.Blogs.Create(a.ctx, d)
		if err != nil {
			return createFailedMsg{err}
		}
		return blogCreatedMsg{b}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(m.Width, m.Height)
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case snapshotMsg:
		if a.listFromNetwork || a.listErr != nil {
			return a, nil
		}
		return a, a.applyList(m.blogs)
	case blogsLoadedMsg:
		a.listErr = nil
		a.listFromNetwork = true
		return a, a.applyList(m.blogs)
	case blogsFailedMsg:
		a.log.Error("load blogs", zap.Error(m.err))
		a.listErr = m.err
	case blogLoadedMsg:
		if m.id != a.selectedID {
			return a, nil
		}
		b := m.blog
		a.detail = &b
		a.detailLoading = false
		a.refreshDetail()
	case blogFailedMsg:
		a.log.Warn("load blog", zap.String("id", m.id), zap.Error(m.err))
		if m.id == a.selectedID {
			a.detailLoading = false
		}
	case blogCreatedMsg:
		a.form.Reset()
		a.dialogOpen = false
		return a, a.loadBlogs()
	case createFailedMsg:
		a.log.Warn("create blog", zap.Error(m.err))
		a.form.pending = false
		var verr *blog.ValidationError
		if errors.As(m.err, &verr) {
			a.form.hint = verr.Error()
		}
	default:
		if a.dialogOpen {
			return a, a.form.Update(msg)
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if m.String() == "ctrl+c" {
		return tea.Quit
	}
	if a.listErr != nil || !a.listLoaded {
		if key.Matches(m, a.keys.Quit) {
			return tea.Quit
		}
		return nil
	}
	if a.dialogOpen {
		return a.handleFormKey(m)
	}

	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.pageBlogs())-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Open):
		page := a.pageBlogs()
		if a.cursor < len(page) {
			a.manualSelection = true
			return a.selectBlog(page[a.cursor].ID)
		}
	case key.Matches(m, a.keys.PrevPage):
		if a.page > 1 {
			a.page--
			a.cursor = 0
		}
	case key.Matches(m, a.keys.NextPage):
		if a.page < pageCount(len(a.blogs), a.pageSize) {
			a.page++
			a.cursor = 0
		}
	case key.Matches(m, a.keys.ScrollUp):
		a.viewport.HalfViewUp()
	case key.Matches(m, a.keys.ScrollDn):
		a.viewport.HalfViewDown()
	case key.Matches(m, a.keys.Create):
		a.dialogOpen = true
		if !a.form.pending {
			a.form.Reset()
		}
		return a.form.Focus()
	}
	return nil
}

func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.dialogOpen = false
		a.form.blurAll()
		return nil
	case key.Matches(m, a.keys.Submit):
		return a.submit()
	case key.Matches(m, a.keys.NextField):
		return a.form.move(1)
	case key.Matches(m, a.keys.PrevField):
		return a.form.move(-1)
	}
	return a.form.Update(m)
}

// submit sends the form as a single create request. Submits while one is
// in flight are dropped.
func (a *App) submit() tea.Cmd {
	if a.form.pending {
		return nil
	}
	d := a.form.Draft(a.now())
	if err := d.Validate(); err != nil {
		a.form.hint = err.Error()
		return nil
	}
	a.form.pending = true
	a.form.hint = ""
	return a.createCmd(d)
}

// applyList installs a freshly loaded list, keeping page and cursor in range.
// Until the user picks a blog the selection follows the head of the list.
func (a *App) applyList(blogs []blog.Blog) tea.Cmd {
	a.blogs = blogs
	a.listLoaded = true
	a.page = clampPage(a.page, pageCount(len(blogs), a.pageSize))
	if n := len(a.pageBlogs()); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
	if a.manualSelection {
		return nil
	}
	if len(blogs) == 0 {
		a.selectedID = ""
		a.detail = nil
		a.detailLoading = false
		return nil
	}
	if a.selectedID != blogs[0].ID {
		return a.selectBlog(blogs[0].ID)
	}
	return nil
}

func (a *App) selectBlog(id string) tea.Cmd {
	a.selectedID = id
	if b, ok := a.services.Blogs.Cached(id); ok {
		a.detail = &b
		a.detailLoading = false
		a.refreshDetail()
		a.viewport.GotoTop()
		return a.loadBlog(id)
	}
	a.detail = nil
	a.detailLoading = true
	return tea.Batch(a.loadBlog(id), a.startSpinner())
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) busy() bool {
	return !a.listLoaded || a.detailLoading
}

func (a *App) pageBlogs() []blog.Blog {
	return pageSlice(a.blogs, a.page, a.pageSize)
}

func (a *App) wide() bool {
	return a.width >= a.breakpoint
}

func (a *App) bodyHeight() int {
	h := a.height - headerHeight - footerHeight
	if h < minDetailRows {
		h = minDetailRows
	}
	return h
}

func (a *App) paneWidths() (list, detail int) {
	if !a.wide() {
		return a.width, a.width
	}
	list = max(a.width/4, minListWidth)
	if a.width-list-paneGap < minDetailWidth {
		list = max(a.width-paneGap-minDetailWidth, 1)
	}
	return list, a.width - list - paneGap
}

func (a *App) paneHeights() (list, detail int) {
	body := a.bodyHeight()
	if a.wide() {
		return body, body
	}
	detail = max(body/3, minDetailRows)
	list = max(body-detail-1, 4)
	return list, detail
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.help.Width = width
	_, detailW := a.paneWidths()
	_, detailH := a.paneHeights()
	a.viewport.Width = detailW
	a.viewport.Height = detailH
	formW := min(maxFormWidth, width-8)
	a.form.resize(formW, min(formRows, height-24))
	a.refreshDetail()
}

func (a *App) refreshDetail() {
	if a.detail == nil {
		a.viewport.SetContent("")
		return
	}
	a.viewport.SetContent(a.renderDetail(*a.detail, a.viewport.Width))
}

func (a *App) View() string {
	if a.listErr != nil {
		return a.renderError()
	}
	if !a.listLoaded {
		return a.renderLoading()
	}
	listW, detailW := a.paneWidths()
	listH, detailH := a.paneHeights()
	body := a.joinPanes(a.renderListPane(listW, listH), a.renderDetailPane(detailW, detailH))
	screen := lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderFooter())
	if a.dialogOpen {
		return overlayCentered(screen, a.styles.dialog.Render(a.form.View(a.styles)), a.width, a.height)
	}
	return screen
}
