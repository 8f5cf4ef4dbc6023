package domain

import "github.com/shopspring/decimal"

// ActionType names a cart state transition.
type ActionType string

const (
	ActionHydrate   ActionType = "HYDRATE"
	ActionAdd       ActionType = "ADD"
	ActionRemove    ActionType = "REMOVE"
	ActionSetQty    ActionType = "SET_QTY"
	ActionStartSync ActionType = "START_SYNC"
	ActionEndSync   ActionType = "END_SYNC"
	ActionClear     ActionType = "CLEAR"
)

// Action is a single transition request. Only the fields relevant to Type are read.
type Action struct {
	Type     ActionType
	Items    []Item
	Item     Item
	ID       string
	Quantity int
}

func Hydrate(items []Item) Action { return Action{Type: ActionHydrate, Items: items} }
func Add(item Item) Action        { return Action{Type: ActionAdd, Item: item} }
func Remove(id string) Action     { return Action{Type: ActionRemove, ID: id} }
func StartSync() Action           { return Action{Type: ActionStartSync} }
func EndSync() Action             { return Action{Type: ActionEndSync} }
func Clear() Action               { return Action{Type: ActionClear} }

func SetQty(id string, quantity int) Action {
	return Action{Type: ActionSetQty, ID: id, Quantity: quantity}
}

// State is the in-memory cart that clients render.
type State struct {
	Items    []Item
	Hydrated bool
	Syncing  bool
}

// Reduce applies action to state and returns the next state. It never panics
// and never mutates the input; item ids stay unique and quantities stay >= 1.
func Reduce(state State, action Action) State {
	next := State{Items: state.Items, Hydrated: state.Hydrated, Syncing: state.Syncing}
	switch action.Type {
	case ActionHydrate:
		next.Items = foldItems(action.Items)
		next.Hydrated = true
	case ActionStartSync:
		next.Syncing = true
	case ActionEndSync:
		next.Syncing = false
	case ActionAdd:
		next.Items = addItem(state.Items, action.Item)
	case ActionRemove:
		next.Items = removeItem(state.Items, action.ID)
	case ActionSetQty:
		if action.Quantity <= 0 {
			next.Items = removeItem(state.Items, action.ID)
			break
		}
		next.Items = setQuantity(state.Items, action.ID, action.Quantity)
	case ActionClear:
		next.Items = []Item{}
	}
	return next
}

func addItem(items []Item, incoming Item) []Item {
	if incoming.ID == "" {
		return items
	}
	qty := incoming.Quantity
	if qty <= 0 {
		qty = 1
	}
	out := CloneItems(items)
	for idx := range out {
		if out[idx].ID == incoming.ID {
			out[idx].Quantity += qty
			return out
		}
	}
	added := incoming.clone()
	added.Quantity = qty
	return append(out, added)
}

func removeItem(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item.clone())
		}
	}
	return out
}

func setQuantity(items []Item, id string, qty int) []Item {
	out := CloneItems(items)
	for idx := range out {
		if out[idx].ID == id {
			out[idx].Quantity = qty
		}
	}
	return out
}

// foldItems sums duplicate ids and drops lines that could not be rendered.
func foldItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		if at, ok := index[item.ID]; ok {
			out[at].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item.clone())
	}
	return out
}

// Find returns the item with id and whether it exists.
func (s State) Find(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item.clone(), true
		}
	}
	return Item{}, false
}

// Clone deep-copies the state.
func (s State) Clone() State {
	s.Items = CloneItems(s.Items)
	return s
}

// TotalItems sums quantities.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums line totals.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
