package lazylist

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// wheelScrollLines is how many rows one mouse wheel tick scrolls.
const wheelScrollLines = 3

// RenderItem renders the item at a global index to its string form. The
// string's line count (or column width for horizontal lists) is the item's
// measured main-axis size.
type RenderItem func(index int) string

// LazyList is the widget-level integration of the measurement engine: a
// Bubble Tea model that owns the scroll state and slot pool, converts
// input messages into scroll deltas, and renders only the measured window.
type LazyList struct {
	content *IntervalContent
	state   *State
	pool    *SlotPool
	config  Config
	render  RenderItem

	width, height int

	// views holds the rendered content of instantiated slots, keyed by
	// child id.
	views       map[uint64]string
	nextChildID uint64

	lastResult Result
}

// NewLazyList creates a vertical lazy list over the given content.
func NewLazyList(content *IntervalContent, render RenderItem) *LazyList {
	return &LazyList{
		content: content,
		state:   NewState(),
		pool:    NewSlotPool(),
		config:  DefaultConfig(),
		render:  render,
		views:   make(map[uint64]string),
	}
}

// --- Fluent API ---

// Horizontal switches the main axis to columns.
func (l *LazyList) Horizontal() *LazyList {
	l.config.Vertical = false
	return l
}

// Spacing sets the gap between adjacent items, in cells.
func (l *LazyList) Spacing(cells float64) *LazyList {
	l.config.Spacing = cells
	return l
}

// Padding sets the content padding before the first and after the last
// item.
func (l *LazyList) Padding(before, after float64) *LazyList {
	l.config.BeforeContentPadding = before
	l.config.AfterContentPadding = after
	return l
}

// BeyondBounds sets how many extra items to measure on each side of the
// visible window.
func (l *LazyList) BeyondBounds(count int) *LazyList {
	l.config.BeyondBoundsItemCount = count
	return l
}

// Prefetch replaces the prefetch strategy.
func (l *LazyList) Prefetch(strategy PrefetchStrategy) *LazyList {
	l.state.SetPrefetchStrategy(strategy)
	return l
}

// Reuse replaces the slot reuse policy. Existing slots are dropped.
func (l *LazyList) Reuse(policy ReusePolicy) *LazyList {
	l.pool = NewSlotPoolWithPolicy(policy)
	return l
}

// SetSize sets the viewport dimensions in cells.
func (l *LazyList) SetSize(width, height int) *LazyList {
	l.width = width
	l.height = height
	return l
}

// --- Accessors ---

// State returns the scroll state handle shared with input producers.
func (l *LazyList) State() *State { return l.state }

// Pool returns the slot pool, for diagnostics.
func (l *LazyList) Pool() *SlotPool { return l.pool }

// Content returns the interval content backing the list.
func (l *LazyList) Content() *IntervalContent { return l.content }

// SetContent replaces the backing content. The next pass re-anchors by key
// if the anchor item still exists in the new content.
func (l *LazyList) SetContent(content *IntervalContent) *LazyList {
	l.content = content
	return l
}

// LastResult returns the result of the most recent measurement pass.
func (l *LazyList) LastResult() Result { return l.lastResult }

// ScrollToItem requests a jump applied on the next pass.
func (l *LazyList) ScrollToItem(index int, offset float64) {
	l.state.ScrollToItem(index, offset)
}

// --- tea.Model ---

// Init implements tea.Model.
func (l *LazyList) Init() tea.Cmd { return nil }

// Update implements tea.Model, converting input messages into scroll
// deltas and jump requests.
func (l *LazyList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)

	case tea.MouseMsg:
		// Deltas follow the content: wheel down scrolls forward, so the
		// content moves up and the delta is negative.
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			l.state.DispatchScrollDelta(wheelScrollLines)
		case tea.MouseButtonWheelDown:
			l.state.DispatchScrollDelta(-wheelScrollLines)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.state.DispatchScrollDelta(1)
		case "down", "j":
			l.state.DispatchScrollDelta(-1)
		case "pgup", "b":
			l.state.DispatchScrollDelta(l.viewportSize())
		case "pgdown", "f", " ":
			l.state.DispatchScrollDelta(-l.viewportSize())
		case "home", "g":
			l.state.ScrollToItem(0, 0)
		case "end", "G":
			if count := l.content.ItemCount(); count > 0 {
				l.state.ScrollToItem(count-1, 0)
			}
		}
	}
	return l, nil
}

// View implements tea.Model. Each call runs a full measurement pass and
// assembles only the measured window.
func (l *LazyList) View() string {
	if l.width <= 0 || l.height <= 0 {
		return ""
	}
	result := l.MeasurePass()
	if l.config.Vertical {
		return l.viewVertical(result)
	}
	return l.viewHorizontal(result)
}

// MeasurePass runs one measurement pass: key-stability fixup, the core
// measure, slot release, stats, and prefetch. Mutation order within the
// pass follows the engine contract: scroll consumption, then the window
// scan, then cache/pool/scheduler updates, then the anchor republish.
func (l *LazyList) MeasurePass() Result {
	count := l.content.ItemCount()

	if count > 0 {
		lo, hi := l.state.NearestRangeBounds()
		l.state.UpdateScrollPositionIfItemMoved(count, func(k Key) (int, bool) {
			if index, ok := l.content.IndexByKey(k); ok {
				return index, true
			}
			return l.content.IndexByKeyInRange(k, lo, hi)
		})
		l.state.UpdateNearestRange()
	}

	// Remember where the window was so the scroll direction can be read
	// off the anchor movement after the pass.
	prevFirst := -1
	if info := l.state.LayoutInfo(); len(info.VisibleItems) > 0 {
		prevFirst = info.VisibleItems[0].Index
	}

	viewport, cross := float64(l.height), float64(l.width)
	if !l.config.Vertical {
		viewport, cross = cross, viewport
	}

	result := Measure(count, l.state, viewport, cross, l.config, l.measureItem)

	visibleKeys := make([]uint64, len(result.VisibleItems))
	for i := range result.VisibleItems {
		visibleKeys[i] = result.VisibleItems[i].Key.SlotID()
	}
	l.pool.ReleaseNonVisible(visibleKeys)
	l.state.UpdateStats(l.pool.InUseCount(), l.pool.AvailableCount())

	if len(result.VisibleItems) > 0 {
		first := result.VisibleItems[0].Index
		last := result.VisibleItems[len(result.VisibleItems)-1].Index

		if prevFirst >= 0 {
			l.state.RecordScrollDirection(float64(first - prevFirst))
		}
		l.state.UpdatePrefetchQueue(first, last, count)
		for _, index := range l.state.TakePrefetchIndices() {
			l.measureItem(index)
			l.state.MarkPrefetched(index)
		}
		keep := l.state.PrefetchStrategy().Count + l.config.BeyondBoundsItemCount
		l.state.CleanupDistantPrefetches(first, last, keep)
	}

	l.lastResult = result
	return result
}

// measureItem instantiates and measures one item, recycling a pooled slot
// of the same content type when possible.
func (l *LazyList) measureItem(index int) MeasuredItem {
	key := l.content.KeyFor(index)
	contentType := l.content.ContentTypeFor(index)
	slotID := key.SlotID()

	var childID uint64
	reused := false
	if slot, ok := l.pool.GetInUse(slotID); ok {
		childID = slot.ChildID
	} else if slot, ok := l.pool.TryGetSlot(contentType); ok {
		childID = slot.ChildID
		reused = true
	} else {
		l.nextChildID++
		childID = l.nextChildID
	}

	l.content.InvokeContent(index)
	view := l.render(index)
	l.views[childID] = view
	l.pool.MarkInUse(slotID, contentType, childID)
	l.state.RecordComposition(reused)

	main := float64(lipgloss.Height(view))
	crossSize := float64(lipgloss.Width(view))
	if !l.config.Vertical {
		main, crossSize = crossSize, main
	}
	return MeasuredItem{
		Index:         index,
		Key:           key,
		ContentType:   contentType,
		MainAxisSize:  main,
		CrossAxisSize: crossSize,
		ChildIDs:      []uint64{childID},
	}
}

func (l *LazyList) viewportSize() float64 {
	if l.config.Vertical {
		return float64(l.height)
	}
	return float64(l.width)
}

func (l *LazyList) viewVertical(result Result) string {
	rows := make([]string, l.height)
	for _, item := range result.VisibleItems {
		view, ok := l.views[item.ChildIDs[0]]
		if !ok {
			continue
		}
		start := int(math.Round(item.Offset))
		for i, line := range strings.Split(view, "\n") {
			row := start + i
			if row < 0 || row >= l.height {
				continue
			}
			rows[row] = ansi.Truncate(line, l.width, "")
		}
	}
	return strings.Join(rows, "\n")
}

func (l *LazyList) viewHorizontal(result Result) string {
	rows := make([]string, l.height)
	printed := make([]int, l.height)
	for _, item := range result.VisibleItems {
		view, ok := l.views[item.ChildIDs[0]]
		if !ok {
			continue
		}
		start := int(math.Round(item.Offset))
		for r, line := range strings.Split(view, "\n") {
			if r >= l.height {
				break
			}
			if start < 0 {
				line = ansi.TruncateLeft(line, -start, "")
			} else if start > printed[r] {
				rows[r] += strings.Repeat(" ", start-printed[r])
				printed[r] = start
			}
			rows[r] += line
			printed[r] += ansi.StringWidth(line)
		}
	}
	for r := range rows {
		rows[r] = ansi.Truncate(rows[r], l.width, "")
	}
	return strings.Join(rows, "\n")
}
