package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/katerji/transaction-tracker/internal/format"
	"github.com/katerji/transaction-tracker/internal/ledger"
	"github.com/katerji/transaction-tracker/internal/query"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F47A60")).
			Padding(1, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1B1B1B")).
			Background(lipgloss.Color("#F47A60")).
			Bold(true).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8A8A8A")).
				Padding(0, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6CBFE6")).
			Padding(0, 2).
			Width(26)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Bold(true)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD54A")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A8A8A"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1B1B1B")).
				Background(lipgloss.Color("#FFD54A"))

	groupLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5CCB76")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFD54A")).
			Padding(1, 2)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F15B5B"))
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.tab {
	case tabDashboard:
		body = m.renderDashboard()
	case tabCategories:
		body = m.renderCategories()
	case tabTransactions:
		body = m.renderTransactions()
	}

	sections := []string{m.renderHeader(), body}
	if m.toast != "" {
		sections = append(sections, toastStyle.Render(m.toast))
	}
	sections = append(sections, m.renderFooter())
	content := strings.Join(sections, "\n\n")

	if m.modal != modalNone {
		overlay := m.renderModal()
		w := max(1, m.width-frameStyle.GetHorizontalFrameSize())
		h := max(1, m.height-frameStyle.GetVerticalFrameSize())
		return frameStyle.Render(lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay))
	}

	frame := frameStyle
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	return frame.Render(content)
}

func (m model) renderHeader() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if tabID(i) == m.tab {
			tabs[i] = tabActiveStyle.Render(title)
		} else {
			tabs[i] = tabInactiveStyle.Render(title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	status := ""
	if m.refreshing {
		status = mutedStyle.Render("  refreshing…")
	} else if !m.state.LastUpdate.IsZero() {
		status = mutedStyle.Render("  updated " + m.state.LastUpdate.Format("3:04 PM"))
	}
	return line + status
}

func (m model) renderDashboard() string {
	now := time.Now()
	s := m.state

	top := ledger.TopSpendCategory(s)
	topValue := top.Name
	if top.Emoji != "" {
		topValue = top.Emoji + " " + top.Name
	}

	cards := []string{
		renderCard("Spent "+s.Stats.Cycle, format.Currency(s.Stats.Total)),
		renderCard("Today", format.Currency(ledger.TodaySpend(s, now))),
		renderCard("Daily Avg", format.Currency(ledger.DailyAverage(s, now))),
		renderCard("Top Category", topValue),
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], " ", cards[3])

	biggest := ledger.BiggestExpense(s)
	biggestLine := mutedStyle.Render("Biggest expense: ") +
		biggest.Description + "  " + cardValueStyle.Render(format.Currency(biggest.Amount))

	lines := []string{row1, row2, "", biggestLine, ""}
	lines = append(lines, groupLabelStyle.Render("Recent"))
	recent := ledger.RecentTransactions(s)
	if len(recent) == 0 {
		lines = append(lines, mutedStyle.Render("  no transactions yet"))
	}
	for _, tx := range recent {
		lines = append(lines, "  "+renderTransactionLine(tx, false))
	}
	return strings.Join(lines, "\n")
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func (m model) renderCategories() string {
	s := m.state
	if len(s.Categories) == 0 {
		return mutedStyle.Render("no categories yet - press r to refresh")
	}

	var lines []string
	for i, bucket := range s.Categories {
		selected := i == m.catCursor
		label := bucket.Emoji + " " + bucket.Category
		count := mutedStyle.Render(" (" + strconv.Itoa(bucket.Count) + ")")
		row := padRight(label, 28) + count + "  " + cardValueStyle.Render(format.Currency(bucket.Total))
		if selected {
			row = selectedRowStyle.Render("> " + label + " (" + strconv.Itoa(bucket.Count) + ")  " + format.Currency(bucket.Total))
		} else {
			row = "  " + row
		}
		lines = append(lines, row)

		if selected && m.catExpanded {
			for _, tx := range bucket.Transactions {
				lines = append(lines, "      "+renderTransactionLine(tx, false))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderTransactions() string {
	var lines []string

	searchLine := m.searchInput.View()
	if !m.searching && m.searchInput.Value() == "" {
		searchLine = mutedStyle.Render("/ to search")
	}
	sortLine := mutedStyle.Render("sort: " + string(m.sortKey) + " " + string(m.sortDir) + "  (s key, o order)")
	lines = append(lines, searchLine, sortLine, "")

	visible := m.visibleTransactions()
	if len(visible) == 0 {
		lines = append(lines, mutedStyle.Render("no matching transactions"))
		return strings.Join(lines, "\n")
	}

	groups := query.GroupByDate(visible, time.Now())
	idx := 0
	for _, group := range groups {
		lines = append(lines, groupLabelStyle.Render(group.Label))
		for _, tx := range group.Transactions {
			lines = append(lines, "  "+renderTransactionLine(tx, idx == m.txCursor))
			idx++
		}
	}
	return strings.Join(lines, "\n")
}

func renderTransactionLine(tx ledger.Transaction, selected bool) string {
	line := format.Emoji(tx.Category) + " " +
		padRight(tx.Description, 32) + " " +
		padRight(format.DateTime(tx.Date), 16) + " " +
		format.Currency(tx.Amount)
	if selected {
		return selectedRowStyle.Render("> " + line)
	}
	return "  " + line
}

func (m model) renderFooter() string {
	var help string
	switch {
	case m.modal != modalNone:
		help = "esc close"
	case m.tab == tabTransactions:
		help = "a add · x quick add · e edit · d delete · / search · s sort · o order · r refresh · q quit"
	case m.tab == tabCategories:
		help = "a add · enter expand · r refresh · q quit"
	default:
		help = "a add · x quick add · tab switch · r refresh · q quit"
	}
	return mutedStyle.Render(help)
}

func (m model) renderModal() string {
	switch m.modal {
	case modalDelete:
		body := "Delete " + m.deleteTarget.Description + " (" + format.Currency(m.deleteTarget.Amount) + ")?\n\n" +
			mutedStyle.Render("enter/y confirm · n/esc cancel")
		if m.modalErr != "" {
			body += "\n" + errStyle.Render(m.modalErr)
		}
		return modalStyle.Render(body)

	case modalQuickAdd:
		body := cardTitleStyle.Render("Quick add") + "\n\n" +
			m.quickInput.View() + "\n\n" +
			mutedStyle.Render("enter send · esc cancel")
		if m.modalErr != "" {
			body += "\n" + errStyle.Render(m.modalErr)
		}
		return modalStyle.Render(body)
	}

	title := "Add transaction"
	if m.modal == modalEdit {
		title = "Edit transaction"
	}

	category := ledger.Categories[m.categoryIdx]
	categoryLine := format.Emoji(category) + " " + category
	if m.modalFocus == fieldCategory {
		categoryLine = selectedRowStyle.Render("< " + categoryLine + " >")
	}

	rows := []string{
		cardTitleStyle.Render(title),
		"",
		modalField("Description", m.descInput.View(), m.modalFocus == fieldDescription),
		modalField("Amount", m.amountInput.View(), m.modalFocus == fieldAmount),
		modalField("Date", m.dateInput.View(), m.modalFocus == fieldDate),
		modalField("Category", categoryLine, m.modalFocus == fieldCategory),
		"",
		mutedStyle.Render("tab next field · enter save · esc cancel"),
	}
	if m.modalInFlight {
		rows = append(rows, mutedStyle.Render("saving…"))
	}
	if m.modalErr != "" {
		rows = append(rows, errStyle.Render(m.modalErr))
	}
	return modalStyle.Render(strings.Join(rows, "\n"))
}

func modalField(label, value string, focused bool) string {
	rendered := cardTitleStyle.Render(padRight(label, 12))
	if focused {
		rendered = selectedRowStyle.Render(padRight(label, 12))
	}
	return rendered + " " + value
}

func padRight(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
