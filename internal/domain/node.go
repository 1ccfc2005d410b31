package domain

import "time"

// Node is the payload of a successful read: a named resource with an
// optional value and the names of its children.
type Node struct {
	Name  string     `json:"name"`
	Value any        `json:"value"`
	Param *Param     `json:"param"`
	Nodes []NodeName `json:"nodes,omitempty"`
}

// Param describes a property value.
type Param struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Access      string `json:"access"`
}

// NodeName is one entry of Node.Nodes.
type NodeName struct {
	Name string `json:"name"`
}

// NewListNode creates a node listing children by name.
func NewListNode(name string, children []string) *Node {
	nodes := make([]NodeName, 0, len(children))
	for _, c := range children {
		nodes = append(nodes, NodeName{Name: c})
	}
	return &Node{Name: name, Value: "", Nodes: nodes}
}

// NewValueNode creates a node carrying a single value.
func NewValueNode(name string, value any) *Node {
	return &Node{Name: name, Value: value}
}

// Message is a bus message.
type Message struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Seqnum    uint64    `json:"seqnum"`
}

// Bus message types posted by the daemon.
const (
	MessageEOS          = "eos"
	MessageStateChanged = "state_changed"
	MessageError        = "error"
)
