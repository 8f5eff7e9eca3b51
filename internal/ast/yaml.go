package ast

// MarshalYAML renders a block as a sequence: literals as integers, leaf
// operations by their source spelling, and structured nodes as mappings.
func (blk Block) MarshalYAML() (interface{}, error) {
	items := make([]interface{}, 0, len(blk))
	for _, n := range blk {
		items = append(items, yamlValue(n))
	}
	return items, nil
}

type yamlIf struct {
	If   Block `yaml:"if"`
	Else Block `yaml:"else,omitempty"`
}

type yamlDef struct {
	Define string `yaml:"define"`
	Body   Block  `yaml:"body"`
}

type yamlCall struct {
	Call string `yaml:"call"`
}

func yamlValue(n Node) interface{} {
	switch n := n.(type) {
	case Number:
		return n.Value
	case Block:
		return n
	case IfElse:
		return yamlIf{n.Then, n.Else}
	case WordDef:
		return yamlDef{n.Name, n.Body}
	case WordCall:
		return yamlCall{n.Name}
	default:
		return n.String()
	}
}
