package export

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// YAML serializes a value tree to YAML. The tree is lowered to a
// yaml.Node document rather than Go maps so record field order
// survives marshaling.
func YAML(v value.Value) ([]byte, *errors.Error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	out, merr := yaml.Marshal(node)
	if merr != nil {
		return nil, errors.Wrap(errors.PhaseExport, errors.KindInvalidData, merr,
			"yaml marshal failed")
	}
	return out, nil
}

func yamlNode(v value.Value) (*yaml.Node, *errors.Error) {
	switch v.Kind {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case value.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}, nil

	case value.KindNumber:
		i, f, isInt := v.Narrow()
		if isInt {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}, nil

	case value.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}, nil

	case value.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range v.Arr {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	case value.KindRecord:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range v.Rec {
			fv := value.Null()
			if f.Value != nil {
				fv = *f.Value
			}
			val, err := yamlNode(fv)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
			node.Content = append(node.Content, key, val)
		}
		return node, nil

	case value.KindEnum:
		if v.Arg == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Tag}, nil
		}
		arg, err := yamlNode(*v.Arg)
		if err != nil {
			return nil, err
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Tag}
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{key, arg}}, nil
	}

	return nil, unexportable(v.Kind, "YAML")
}
