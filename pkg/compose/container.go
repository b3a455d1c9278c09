package compose

import (
	"io"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/signal"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger routes the container's debug traces to the given logger.
// Without it, traces are discarded.
func WithLogger(logger *log.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// Container orchestrates blueprints, the drag-box, and the active placement
// over one chart.
//
// Construction builds the initial blueprint set from the composer's current
// drawables and wires the selection handler; [Container.Attach] then
// subscribes to the chart so later additions and removals keep the set in
// sync. All pointer input enters through MouseDown, MouseMove, and MouseUp,
// which report whether they consumed the event; [Container.Tick] drives the
// per-frame placement visibility update.
//
// The zero value is not usable - use New.
type Container struct {
	model    *chart.Chart
	composer Composer
	handler  SelectionHandler
	logger   *log.Logger

	blueprints *blueprintList
	dragBox    *DragBox
	wiring     map[*Blueprint][]*signal.Subscription

	tool      Tool
	placement Placement

	lastPointer  r2.Vec
	pointerKnown bool

	pressed  *Blueprint // blueprint under the current press, if any
	pressPos r2.Vec
	dragging bool

	addedSub   *signal.Subscription
	removedSub *signal.Subscription
}

// New creates a container over the given chart and composer.
//
// It requests a selection handler from the composer, binds the deselect-all
// callback into it, wires the drag-box to rectangle selection, and builds
// one blueprint per drawable the composer already knows about. Call Attach
// to start tracking chart mutations.
func New(model *chart.Chart, composer Composer, opts ...Option) *Container {
	c := &Container{
		model:      model,
		composer:   composer,
		blueprints: newBlueprintList(),
		dragBox:    &DragBox{},
		wiring:     make(map[*Blueprint][]*signal.Subscription),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	c.handler = composer.CreateSelectionHandler()
	c.handler.BindDeselectAll(c.DeselectAll)

	c.dragBox.OnCompleted(c.applyRectSelection)
	c.dragBox.OnEnded(func() { c.handler.UpdateVisibility() })

	for _, d := range composer.Drawables() {
		c.trackDrawable(d)
	}
	return c
}

// Attach subscribes the container to the chart's object added/removed
// notifications. Calling it again while attached is a no-op.
func (c *Container) Attach() {
	if c.model == nil || c.addedSub != nil {
		return
	}
	c.addedSub = c.model.OnObjectAdded(c.objectAdded)
	c.removedSub = c.model.OnObjectRemoved(c.objectRemoved)
}

// Close detaches the container from the chart and closes any live
// placement. Safe to call before Attach and safe to call repeatedly.
func (c *Container) Close() {
	c.addedSub.Unsubscribe()
	c.removedSub.Unsubscribe()
	c.addedSub = nil
	c.removedSub = nil
	if c.placement != nil {
		c.placement.Close()
		c.placement = nil
	}
}

// =============================================================================
// Tools & Placement
// =============================================================================

// SetTool switches the active tool. Switching tears down the previous
// placement and creates a new one if the tool places objects; setting the
// tool already active is a no-op.
func (c *Container) SetTool(t Tool) {
	if c.tool == t {
		return
	}
	c.tool = t
	c.logger.Debug("tool changed", "tool", toolName(t))
	c.refreshPlacement()
}

// CurrentTool returns the active tool, or nil.
func (c *Container) CurrentTool() Tool { return c.tool }

// CurrentPlacement returns the live placement, or nil. The editor reads it
// to render the placement preview.
func (c *Container) CurrentPlacement() Placement { return c.placement }

// refreshPlacement replaces the live placement with a fresh one from the
// current tool. The last known pointer position is fed to the new placement
// immediately so the preview does not snap on its first frame.
func (c *Container) refreshPlacement() {
	if c.placement != nil {
		c.placement.Close()
		c.placement = nil
	}
	if c.tool == nil {
		return
	}
	p := c.tool.CreatePlacement()
	if p == nil {
		return
	}
	c.placement = p
	if c.pointerKnown {
		p.UpdatePointer(c.lastPointer)
	}
}

// Tick runs the per-frame placement visibility update: the placement is
// shown while the cursor is in the placement area, and hidden outside it
// unless placing has begun, so a begun placement can be dragged out of
// bounds without disappearing.
func (c *Container) Tick() {
	if c.placement == nil {
		return
	}
	switch {
	case c.composer.CursorInPlacementArea():
		c.placement.SetState(PlacementShown)
	case !c.placement.Begun():
		c.placement.SetState(PlacementHidden)
	}
}

// =============================================================================
// Pointer Input
// =============================================================================

// MouseDown routes a primary button press. The live placement gets first
// claim while the cursor is in the placement area; blueprints are offered
// the press in hit-test order next; otherwise the press starts a drag-box
// gesture. Reports whether the event was consumed.
func (c *Container) MouseDown(pos r2.Vec, mods Modifiers) bool {
	c.rememberPointer(pos)

	if c.placement != nil && c.composer.CursorInPlacementArea() {
		if c.placement.MouseDown(pos, mods) {
			return true
		}
	}

	for _, bp := range c.blueprints.hitTestOrder() {
		if !bp.Visible() || !bp.HitTest(pos) {
			continue
		}
		c.pressed = bp
		c.pressPos = pos
		c.dragging = false
		bp.RequestSelection(mods)
		c.armMovement()
		return true
	}

	c.dragBox.Begin(pos)
	return true
}

// MouseMove routes pointer motion. During a press it drives the blueprint
// drag or the drag-box; otherwise motion is forwarded to the live placement.
// Reports whether the event was consumed.
func (c *Container) MouseMove(pos r2.Vec, mods Modifiers) bool {
	c.rememberPointer(pos)

	switch {
	case c.pressed != nil:
		if pos != c.pressPos {
			c.dragging = true
		}
		if c.dragging {
			c.pressed.RequestDrag(c.pressPos, pos)
		}
		return true

	case c.dragBox.Active():
		c.dragBox.Update(pos)
		return true

	case c.placement != nil:
		c.placement.UpdatePointer(pos)
		return true
	}
	return false
}

// MouseUp finishes the gesture started by the matching MouseDown. A
// drag-box release applies rectangle selection; a release without any drag
// deselects everything. Reports whether the event was consumed.
func (c *Container) MouseUp(pos r2.Vec, mods Modifiers) bool {
	c.rememberPointer(pos)

	if c.pressed != nil {
		c.pressed = nil
		c.dragging = false
		return true
	}

	if c.dragBox.Active() {
		c.dragBox.Update(pos)
		if !c.dragBox.Dragging() {
			// A click on empty space clears the selection before the
			// gesture-end notification refreshes affordances.
			c.DeselectAll()
		}
		c.dragBox.End(pos)
		return true
	}
	return false
}

// DragRect returns the live drag-box rectangle for rendering. The second
// return is false when no box gesture is active.
func (c *Container) DragRect() (Rect, bool) { return c.dragBox.Rect() }

func (c *Container) rememberPointer(pos r2.Vec) {
	c.lastPointer = pos
	c.pointerKnown = true
}

// armMovement captures movement anchors on the pressed blueprint and every
// selected one, so a drag that follows is computed against positions at
// press time.
func (c *Container) armMovement() {
	c.pressed.BeginMove()
	for _, bp := range c.blueprints.hitTestOrder() {
		if bp.Selected() && bp != c.pressed {
			bp.BeginMove()
		}
	}
}

// =============================================================================
// Selection
// =============================================================================

// DeselectAll deselects every blueprint.
func (c *Container) DeselectAll() {
	for _, bp := range c.blueprints.hitTestOrder() {
		bp.Deselect()
	}
}

// applyRectSelection re-evaluates every blueprint against the completed
// rectangle: visible blueprints whose selection point lies inside become
// selected, all others become deselected. Running the same rectangle twice
// therefore yields the same selection set.
func (c *Container) applyRectSelection(r Rect) {
	for _, bp := range c.blueprints.hitTestOrder() {
		if bp.Visible() && r.Contains(bp.SelectionPoint()) {
			bp.Select()
		} else {
			bp.Deselect()
		}
	}
}

// Blueprints returns a snapshot of all blueprints in hit-test order.
func (c *Container) Blueprints() []*Blueprint { return c.blueprints.hitTestOrder() }

// PaintOrder returns a snapshot of all blueprints in draw order (the
// reverse of hit-test order).
func (c *Container) PaintOrder() []*Blueprint { return c.blueprints.paintOrder() }

// =============================================================================
// Chart Synchronization
// =============================================================================

// objectAdded resolves the new object's drawable and tracks it. An object
// without a drawable is skipped: the composer has not realized it yet and
// owns re-announcing it. The placement is refreshed first, since some tools
// react to composition changes.
func (c *Container) objectAdded(obj *chart.HitObject) {
	d := c.resolveDrawable(obj)
	if d == nil {
		c.logger.Debug("added object has no drawable, skipping", "object", obj.ID)
		return
	}
	c.refreshPlacement()
	c.trackDrawable(d)
}

// objectRemoved drops the blueprint wrapping the removed object, if any:
// deselect first so the handler observes the transition, then release its
// event wiring, then remove it from the collection.
func (c *Container) objectRemoved(obj *chart.HitObject) {
	bp := c.blueprints.findByObject(obj)
	if bp == nil {
		return
	}
	bp.Deselect()
	c.unwire(bp)
	c.blueprints.remove(bp)
	if c.pressed == bp {
		c.pressed = nil
		c.dragging = false
	}
	c.logger.Debug("blueprint removed", "object", obj.ID)
}

// resolveDrawable finds the drawable wrapping obj by identity. Linear scan;
// drawable collections are small (one entry per hit object).
func (c *Container) resolveDrawable(obj *chart.HitObject) Drawable {
	for _, d := range c.composer.Drawables() {
		if d.HitObject() == obj {
			return d
		}
	}
	return nil
}

func (c *Container) trackDrawable(d Drawable) {
	bp := c.composer.CreateBlueprint(d)
	if bp == nil {
		return
	}
	c.wire(bp)
	c.blueprints.insert(bp)
}

// wire routes the blueprint's events into the selection handler. Selection
// transitions re-sort the collection afterwards, since the selected tier is
// the primary ordering key.
func (c *Container) wire(bp *Blueprint) {
	c.wiring[bp] = []*signal.Subscription{
		bp.OnSelected(func(b *Blueprint) {
			c.handler.HandleSelected(b)
			c.blueprints.resort()
		}),
		bp.OnDeselected(func(b *Blueprint) {
			c.handler.HandleDeselected(b)
			c.blueprints.resort()
		}),
		bp.OnSelectionRequested(func(req SelectionRequest) {
			c.handler.HandleSelectionRequested(req.Blueprint, req.Modifiers)
		}),
		bp.OnDragRequested(func(req DragRequest) {
			from := req.Blueprint.MovementStartPosition()
			c.handler.HandleMovement(Movement{
				Blueprint: req.Blueprint,
				From:      from,
				To:        from.Add(req.Current.Sub(req.Down)),
			})
		}),
	}
}

func (c *Container) unwire(bp *Blueprint) {
	for _, sub := range c.wiring[bp] {
		sub.Unsubscribe()
	}
	delete(c.wiring, bp)
}

func toolName(t Tool) string {
	if t == nil {
		return "none"
	}
	return t.Name()
}
