package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/monkblog/internal/blog"
)

const (
	appName        = "CA MONK BLOGS"
	promptText     = "Select a blog to view details"
	listErrorText  = "Error loading blogs"
	paneGap        = 2
	minListWidth   = 28
	minDetailWidth = 30
	minDetailRows  = 6
	headerHeight   = 2
	footerHeight   = 1
	descClampLines = 2
)

func (a *App) renderHeader() string {
	title := a.styles.appTitle.Render(appName)
	button := a.styles.button.Render("[n] Create Blog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(button)
	if gap < 1 {
		return title + "\n" + button
	}
	return title + strings.Repeat(" ", gap) + button + "\n"
}

func (a *App) renderLoading() string {
	listW, detailW := a.paneWidths()
	listH, detailH := a.paneHeights()
	list := lipgloss.Place(listW, listH, lipgloss.Center, lipgloss.Center,
		a.spinner.View()+" "+a.styles.muted.Render("Loading blogs..."))
	detail := lipgloss.Place(detailW, detailH, lipgloss.Center, lipgloss.Center,
		a.spinner.View()+" "+a.styles.muted.Render("Loading content..."))
	return a.joinPanes(list, detail)
}

func (a *App) renderError() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(listErrorText)
}

func (a *App) joinPanes(list, detail string) string {
	if !a.wide() {
		return lipgloss.JoinVertical(lipgloss.Left, list, "", detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, strings.Repeat(" ", paneGap), detail)
}

// renderListPane draws the current page of cards. Cards that do not fit
// in height are windowed so the cursor card stays visible.
func (a *App) renderListPane(width, height int) string {
	title := a.styles.paneTitle.Render("All Blogs")
	pager := a.renderPagination(width)

	bodyH := height
	if pager != "" {
		bodyH -= lipgloss.Height(pager)
	}
	avail := bodyH - 2
	page := a.pageBlogs()
	cards := make([]string, len(page))
	heights := make([]int, len(page))
	for i, b := range page {
		cards[i] = a.renderCard(b.Sanitized(), width, i == a.cursor, b.ID == a.selectedID)
		heights[i] = lipgloss.Height(cards[i]) + 1
	}

	start := 0
	for start < a.cursor && sum(heights[start:a.cursor+1]) > avail {
		start++
	}
	var shown []string
	used := 0
	for i := start; i < len(cards); i++ {
		if used+heights[i] > avail && len(shown) > 0 {
			break
		}
		shown = append(shown, cards[i])
		used += heights[i]
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(strings.Join(shown, "\n\n"))
	body := lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(b.String())
	if pager == "" {
		return body
	}
	return body + "\n" + pager
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func (a *App) renderCard(b blog.Blog, width int, cursor, selected bool) string {
	st := a.styles.card
	switch {
	case selected:
		st = a.styles.cardSelected
	case cursor:
		st = a.styles.cardCursor
	}
	inner := width - st.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	marker := ""
	if cursor {
		marker = a.styles.accent.Render("▶ ")
	}
	lines := []string{
		marker + a.styles.cardTitle.Render(ansi.Truncate(b.Title, inner-lipgloss.Width(marker), "…")),
	}
	if chips := a.renderChips(b.Category, inner); chips != "" {
		lines = append(lines, chips)
	}
	lines = append(lines, clampLines(b.Description, inner, descClampLines)...)
	lines = append(lines, a.styles.muted.Render(a.formatDate(b.Date)))
	return st.Width(inner + st.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}

func (a *App) renderChips(categories []string, width int) string {
	if len(categories) == 0 {
		return ""
	}
	var rows []string
	row := ""
	for _, c := range categories {
		chip := a.styles.chip.Render(ansi.Truncate(c, width-2, "…"))
		switch {
		case row == "":
			row = chip
		case lipgloss.Width(row)+1+lipgloss.Width(chip) > width:
			rows = append(rows, row)
			row = chip
		default:
			row += " " + chip
		}
	}
	rows = append(rows, row)
	return strings.Join(rows, "\n")
}

func (a *App) renderPagination(width int) string {
	pages := pageCount(len(a.blogs), a.pageSize)
	if pages <= 1 {
		return ""
	}
	prev, next := a.styles.accent.Render("‹"), a.styles.accent.Render("›")
	if a.page == 1 {
		prev = a.styles.disabled.Render("‹")
	}
	if a.page == pages {
		next = a.styles.disabled.Render("›")
	}
	label := a.styles.muted.Render(fmt.Sprintf("Page %d of %d", a.page, pages))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, prev+"  "+label+"  "+next)
}

func (a *App) renderDetailPane(width, height int) string {
	switch {
	case a.detailLoading:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" "+a.styles.muted.Render("Loading blog details..."))
	case a.detail == nil:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			a.styles.muted.Render(promptText))
	}
	return a.viewport.View()
}

// renderDetail is the scrollable body of the detail pane.
func (a *App) renderDetail(b blog.Blog, width int) string {
	b = b.Sanitized()
	var out strings.Builder
	if b.CoverImage != "" {
		out.WriteString(a.styles.muted.Render(ansi.Truncate("Cover: "+b.CoverImage, width, "…")))
		out.WriteString("\n\n")
	}
	out.WriteString(a.styles.detailTitle.Width(width).Render(b.Title))
	out.WriteString("\n")
	if chips := a.renderChips(b.Category, width); chips != "" {
		out.WriteString(chips + "\n")
	}
	out.WriteString(a.styles.muted.Render(a.formatDate(b.Date)))
	out.WriteString("\n\n")
	out.WriteString(a.styles.content.Width(width).Render(b.Content))
	return out.String()
}

func (a *App) renderFooter() string {
	if a.dialogOpen {
		return a.help.ShortHelpView(a.keys.formHelp())
	}
	return a.help.ShortHelpView(a.keys.browseHelp())
}

func (a *App) formatDate(ts blog.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(a.tz).Format(a.dateFormat)
}

// clampLines wraps s to width and keeps at most n lines, marking the cut with an ellipsis.
func clampLines(s string, width, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" || n <= 0 {
		return nil
	}
	wrapped := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i := range wrapped {
		wrapped[i] = strings.TrimRight(wrapped[i], " ")
	}
	if len(wrapped) <= n {
		return wrapped
	}
	out := wrapped[:n]
	last := out[n-1]
	if ansi.StringWidth(last) >= width {
		last = ansi.Truncate(last, width-1, "")
	}
	out[n-1] = last + "…"
	return out
}
