package server

import (
	"sort"
	"strings"
)

const (
	SlotA = "server_a"
	SlotB = "server_b"
)

// SlotRule maps persisted servers onto a logical slot. A server matches
// when its lower-cased name contains one of NameContains or its id is in IDs.
type SlotRule struct {
	Slot         string
	Port         int
	DisplayName  string
	NameContains []string
	IDs          []string
}

func (r SlotRule) Matches(name, id string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range r.NameContains {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	for _, candidate := range r.IDs {
		if id == candidate {
			return true
		}
	}
	return false
}

// SlotTable is evaluated top to bottom; Default catches every server no rule matched.
type SlotTable struct {
	Version int
	Rules   []SlotRule
	Default SlotRule
}

type Assignment struct {
	Slot     string
	Port     int
	Fallback bool
}

// DefaultSlotTable seats unrecognised servers in server_b, next to the
// known utility server.
var DefaultSlotTable = SlotTable{
	Version: 1,
	Rules: []SlotRule{
		{
			Slot:         SlotA,
			Port:         3001,
			DisplayName:  "Server A",
			NameContains: []string{"finance"},
			IDs:          []string{"finance-server-001"},
		},
		{
			Slot:         SlotB,
			Port:         3002,
			DisplayName:  "Server B",
			NameContains: []string{"test", "mcp server 2"},
			IDs: []string{
				"3d24c70b-7e99-4bb2-8c18-54caa48e5c6e",
				"f2f47d1f-3fcd-4cee-b560-2a89f510a6f2",
			},
		},
	},
	Default: SlotRule{Slot: SlotB, Port: 3002, DisplayName: "Server B"},
}

func (t SlotTable) Classify(name, id string) Assignment {
	for _, rule := range t.Rules {
		if rule.Matches(name, id) {
			return Assignment{Slot: rule.Slot, Port: rule.Port}
		}
	}
	return Assignment{Slot: t.Default.Slot, Port: t.Default.Port, Fallback: true}
}

func (t SlotTable) Annotate(s Server) Annotated {
	a := t.Classify(s.Name, s.ID)
	return Annotated{
		Server:     s,
		ServerName: a.Slot,
		Port:       a.Port,
		IsActive:   s.Enabled,
	}
}

// Rule returns the first rule for slot, falling back to Default.
func (t SlotTable) Rule(slot string) (SlotRule, bool) {
	for _, rule := range t.Rules {
		if rule.Slot == slot {
			return rule, true
		}
	}
	if t.Default.Slot == slot {
		return t.Default, true
	}
	return SlotRule{}, false
}

func (t SlotTable) IsSlot(name string) bool {
	_, ok := t.Rule(name)
	return ok
}

// SlotForPort returns the slot whose rule listens on port.
func (t SlotTable) SlotForPort(port int) (string, bool) {
	for _, rule := range t.Rules {
		if rule.Port == port {
			return rule.Slot, true
		}
	}
	return "", false
}

// Resolve picks the server a slot name refers to. Rule matches beat
// fallback matches; ties go to the lowest name.
func (t SlotTable) Resolve(slot string, servers []Server) (*Server, bool) {
	var explicit, fallback []Server
	for _, s := range servers {
		a := t.Classify(s.Name, s.ID)
		if a.Slot != slot {
			continue
		}
		if a.Fallback {
			fallback = append(fallback, s)
		} else {
			explicit = append(explicit, s)
		}
	}
	for _, group := range [][]Server{explicit, fallback} {
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		found := group[0]
		return &found, true
	}
	return nil, false
}
