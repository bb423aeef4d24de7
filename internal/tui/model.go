// Package tui renders the dashboard. Single bubbletea model, three
// tabs, modal overlays for the mutations. Cmds only confirm operations
// with the backend and deliver the result as a msg; the state itself
// is mutated in Update, on the event loop, via the controller's Apply
// methods. View and Update therefore never observe a half-applied
// state.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/katerji/transaction-tracker/internal/format"
	"github.com/katerji/transaction-tracker/internal/ledger"
	"github.com/katerji/transaction-tracker/internal/query"
	syncctl "github.com/katerji/transaction-tracker/internal/sync"
)

const (
	mutationTimeout = 20 * time.Second
	// The refreshing flag stays set for a beat after completion so the
	// spinner does not flicker on fast connections.
	refreshCooldown = 500 * time.Millisecond
	toastDuration   = 4 * time.Second
)

type cacheLoadedMsg struct {
	res *syncctl.RefreshResult
	err error
}

type refreshDoneMsg struct {
	res *syncctl.RefreshResult
	err error
}

type refreshCooldownMsg struct {
	id int
}

type addDoneMsg struct {
	tx  ledger.Transaction
	err error
}

type updateDoneMsg struct {
	old     ledger.Transaction
	updated ledger.Transaction
	err     error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type quickAddDoneMsg struct {
	count int
	err   error
}

type clearToastMsg struct {
	id int
}

type tabID int

const (
	tabDashboard tabID = iota
	tabCategories
	tabTransactions
)

var tabTitles = []string{"Dashboard", "Categories", "Transactions"}

type modalMode int

const (
	modalNone modalMode = iota
	modalAdd
	modalEdit
	modalDelete
	modalQuickAdd
)

const (
	fieldDescription = iota
	fieldAmount
	fieldDate
	fieldCategory
	fieldCount
)

type model struct {
	ctrl  *syncctl.Controller
	state *ledger.AppState

	width  int
	height int

	tab        tabID
	refreshing bool
	refreshID  int

	toast   string
	toastID int

	// Transactions tab.
	searchInput textinput.Model
	searching   bool
	sortKey     query.SortKey
	sortDir     query.Direction
	txCursor    int

	// Categories tab.
	catCursor   int
	catExpanded bool

	// Modal state.
	modal         modalMode
	modalErr      string
	modalFocus    int
	descInput     textinput.Model
	amountInput   textinput.Model
	dateInput     textinput.Model
	categoryIdx   int
	quickInput    textinput.Model
	editTarget    ledger.Transaction
	deleteTarget  ledger.Transaction
	modalInFlight bool

	quitting bool
}

func New(ctrl *syncctl.Controller) tea.Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search description, category, amount"
	search.Width = 48

	desc := textinput.New()
	desc.Prompt = ""
	desc.Placeholder = "Coffee at the corner place"
	desc.Width = 40
	desc.CharLimit = 120

	amount := textinput.New()
	amount.Prompt = ""
	amount.Placeholder = "15.50"
	amount.Width = 40

	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = "2024-03-05T14:30"
	date.Width = 40

	quick := textinput.New()
	quick.Prompt = "> "
	quick.Placeholder = "coffee 15.5 and taxi 30"
	quick.Width = 48

	return model{
		ctrl:        ctrl,
		state:       ctrl.State(),
		tab:         tabDashboard,
		searchInput: search,
		sortKey:     query.SortDate,
		sortDir:     query.Desc,
		descInput:   desc,
		amountInput: amount,
		dateInput:   date,
		quickInput:  quick,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCacheCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(24, msg.Width-30)
		return m, nil

	case cacheLoadedMsg:
		if msg.res != nil {
			m.ctrl.ApplyRefresh(msg.res)
			m.clampCursors()
		}
		// Cache or not, the first refresh starts once the load settles.
		m.refreshing = true
		if msg.err != nil {
			next, cmd := m.withToast("cache load failed: " + msg.err.Error())
			return next, tea.Batch(cmd, m.refreshCmd())
		}
		return m, m.refreshCmd()

	case refreshDoneMsg:
		m.refreshID++
		id := m.refreshID
		cooldown := tea.Tick(refreshCooldown, func(time.Time) tea.Msg {
			return refreshCooldownMsg{id: id}
		})
		if msg.err != nil {
			next, cmd := m.withToast(msg.err.Error())
			return next, tea.Batch(cmd, cooldown)
		}
		m.ctrl.ApplyRefresh(msg.res)
		m.clampCursors()
		return m, cooldown

	case refreshCooldownMsg:
		if msg.id == m.refreshID {
			m.refreshing = false
		}
		return m, nil

	case addDoneMsg:
		m.modalInFlight = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.ctrl.ApplyAdd(msg.tx)
		m = m.closeModal()
		return m.withToast("Added " + msg.tx.Description)

	case updateDoneMsg:
		m.modalInFlight = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.ctrl.ApplyUpdate(msg.old, msg.updated)
		m = m.closeModal()
		m.clampCursors()
		return m.withToast("Transaction updated")

	case deleteDoneMsg:
		m.modalInFlight = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.ctrl.ApplyDelete(msg.id)
		m = m.closeModal()
		m.clampCursors()
		return m.withToast("Transaction deleted")

	case quickAddDoneMsg:
		m.modalInFlight = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m = m.closeModal()
		m.refreshing = true
		next, cmd := m.withToast("Parsed " + pluralTransactions(msg.count))
		return next, tea.Batch(cmd, m.refreshCmd())

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.txCursor = 0
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.txCursor = 0
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right":
		m.tab = (m.tab + 1) % tabID(len(tabTitles))
		return m, nil
	case "shift+tab", "left":
		m.tab = (m.tab - 1 + tabID(len(tabTitles))) % tabID(len(tabTitles))
		return m, nil
	case "1":
		m.tab = tabDashboard
		return m, nil
	case "2":
		m.tab = tabCategories
		return m, nil
	case "3":
		m.tab = tabTransactions
		return m, nil

	case "r":
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, m.refreshCmd()

	case "a":
		return m.openAddModal(), nil

	case "x":
		return m.openQuickAddModal(), nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	}

	switch m.tab {
	case tabCategories:
		if msg.String() == "enter" {
			m.catExpanded = !m.catExpanded
			return m, nil
		}

	case tabTransactions:
		switch msg.String() {
		case "/":
			m.searching = true
			m.searchInput.Focus()
			return m, nil
		case "s":
			m.sortKey = nextSortKey(m.sortKey)
			m.txCursor = 0
			return m, nil
		case "o":
			if m.sortDir == query.Asc {
				m.sortDir = query.Desc
			} else {
				m.sortDir = query.Asc
			}
			m.txCursor = 0
			return m, nil
		case "enter", "e":
			if tx, ok := m.selectedTransaction(); ok {
				return m.openEditModal(tx), nil
			}
			return m, nil
		case "d":
			if tx, ok := m.selectedTransaction(); ok {
				m.modal = modalDelete
				m.deleteTarget = tx
				m.modalErr = ""
			}
			return m, nil
		}
	}

	return m, nil
}

func (m model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalInFlight {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	switch m.modal {
	case modalDelete:
		switch msg.String() {
		case "enter", "y":
			m.modalInFlight = true
			return m, m.deleteCmd(m.deleteTarget.ID)
		case "n":
			return m.closeModal(), nil
		}
		return m, nil

	case modalQuickAdd:
		if msg.String() == "enter" {
			m.modalInFlight = true
			m.modalErr = ""
			return m, m.quickAddCmd(m.quickInput.Value())
		}
		var cmd tea.Cmd
		m.quickInput, cmd = m.quickInput.Update(msg)
		return m, cmd

	case modalAdd, modalEdit:
		switch msg.String() {
		case "tab", "down":
			m.setModalFocus((m.modalFocus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setModalFocus((m.modalFocus - 1 + fieldCount) % fieldCount)
			return m, nil
		case "left":
			if m.modalFocus == fieldCategory {
				m.categoryIdx = (m.categoryIdx - 1 + len(ledger.Categories)) % len(ledger.Categories)
				return m, nil
			}
		case "right":
			if m.modalFocus == fieldCategory {
				m.categoryIdx = (m.categoryIdx + 1) % len(ledger.Categories)
				return m, nil
			}
		case "enter":
			in, err := m.modalInput()
			if err != nil {
				m.modalErr = err.Error()
				return m, nil
			}
			m.modalErr = ""
			m.modalInFlight = true
			if m.modal == modalAdd {
				return m, m.addCmd(in)
			}
			return m, m.updateCmd(m.editTarget, in)
		}

		var cmd tea.Cmd
		switch m.modalFocus {
		case fieldDescription:
			m.descInput, cmd = m.descInput.Update(msg)
		case fieldAmount:
			m.amountInput, cmd = m.amountInput.Update(msg)
		case fieldDate:
			m.dateInput, cmd = m.dateInput.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// modalInput validates the form fields and assembles the controller
// input. The amount is parsed here so a typo surfaces in the modal, not
// as a failed API call.
func (m model) modalInput() (syncctl.Input, error) {
	amount, err := format.ParseAmountToCents(m.amountInput.Value())
	if err != nil {
		return syncctl.Input{}, err
	}
	return syncctl.Input{
		Description: m.descInput.Value(),
		Amount:      amount,
		Date:        format.InputValueToDate(strings.TrimSpace(m.dateInput.Value())),
		Category:    ledger.Categories[m.categoryIdx],
	}, nil
}

func (m model) openAddModal() model {
	m.modal = modalAdd
	m.modalErr = ""
	m.descInput.SetValue("")
	m.amountInput.SetValue("")
	m.dateInput.SetValue(format.NowInputValue(time.Now()))
	m.categoryIdx = 0
	m.setModalFocus(fieldDescription)
	return m
}

func (m model) openEditModal(tx ledger.Transaction) model {
	m.modal = modalEdit
	m.modalErr = ""
	m.editTarget = tx
	m.descInput.SetValue(tx.Description)
	m.amountInput.SetValue(tx.Amount.String())
	m.dateInput.SetValue(format.DateToInputValue(tx.Date))
	m.categoryIdx = categoryIndex(tx.Category)
	m.setModalFocus(fieldDescription)
	return m
}

func (m model) openQuickAddModal() model {
	m.modal = modalQuickAdd
	m.modalErr = ""
	m.quickInput.SetValue("")
	m.quickInput.Focus()
	return m
}

func (m model) closeModal() model {
	m.modal = modalNone
	m.modalErr = ""
	m.modalInFlight = false
	m.descInput.Blur()
	m.amountInput.Blur()
	m.dateInput.Blur()
	m.quickInput.Blur()
	return m
}

func (m *model) setModalFocus(focus int) {
	m.modalFocus = focus
	m.descInput.Blur()
	m.amountInput.Blur()
	m.dateInput.Blur()
	switch focus {
	case fieldDescription:
		m.descInput.Focus()
	case fieldAmount:
		m.amountInput.Focus()
	case fieldDate:
		m.dateInput.Focus()
	}
}

func (m *model) moveCursor(delta int) {
	switch m.tab {
	case tabCategories:
		m.catCursor = clamp(m.catCursor+delta, 0, len(m.state.Categories)-1)
		m.catExpanded = false
	case tabTransactions:
		m.txCursor = clamp(m.txCursor+delta, 0, len(m.visibleTransactions())-1)
	}
}

func (m *model) clampCursors() {
	m.catCursor = clamp(m.catCursor, 0, len(m.state.Categories)-1)
	m.txCursor = clamp(m.txCursor, 0, len(m.visibleTransactions())-1)
}

// visibleTransactions is the transactions tab's working set: the flat
// list filtered by the search box, then sorted by the active key.
func (m model) visibleTransactions() []ledger.Transaction {
	filtered := query.Search(m.state.Transactions, m.searchInput.Value())
	return query.Sort(filtered, m.sortKey, m.sortDir)
}

func (m model) selectedTransaction() (ledger.Transaction, bool) {
	visible := m.visibleTransactions()
	if m.txCursor < 0 || m.txCursor >= len(visible) {
		return ledger.Transaction{}, false
	}
	return visible[m.txCursor], true
}

func (m model) withToast(text string) (model, tea.Cmd) {
	m.toast = text
	m.toastID++
	id := m.toastID
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// The Cmds below run off the event loop, so they only confirm with the
// backend and report back; the msg handlers above apply the results.

func (m model) loadCacheCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		res, _, err := ctrl.LoadCached(ctx)
		return cacheLoadedMsg{res: res, err: err}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		res, err := ctrl.Refresh(ctx)
		return refreshDoneMsg{res: res, err: err}
	}
}

func (m model) addCmd(in syncctl.Input) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		tx, err := ctrl.Add(ctx, in)
		return addDoneMsg{tx: tx, err: err}
	}
}

func (m model) updateCmd(old ledger.Transaction, in syncctl.Input) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		updated, err := ctrl.Update(ctx, old, in)
		return updateDoneMsg{old: old, updated: updated, err: err}
	}
}

func (m model) deleteCmd(id int64) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		return deleteDoneMsg{id: id, err: ctrl.Delete(ctx, id)}
	}
}

func (m model) quickAddCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		resp, err := ctrl.QuickAdd(ctx, text)
		if err != nil {
			return quickAddDoneMsg{err: err}
		}
		return quickAddDoneMsg{count: resp.Count}
	}
}

func nextSortKey(key query.SortKey) query.SortKey {
	switch key {
	case query.SortDate:
		return query.SortAmount
	case query.SortAmount:
		return query.SortCategory
	default:
		return query.SortDate
	}
}

func categoryIndex(category string) int {
	for i, c := range ledger.Categories {
		if c == category {
			return i
		}
	}
	return 0
}

func pluralTransactions(n int) string {
	if n == 1 {
		return "1 transaction"
	}
	return strconv.Itoa(n) + " transactions"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
