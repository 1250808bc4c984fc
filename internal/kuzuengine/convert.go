package kuzuengine

import (
	"sort"

	"github.com/LadybugDB/bugscope/internal/value"
	"github.com/kuzudb/go-kuzu"
)

// Convert maps one native driver value to a value.Value.
func Convert(v any) value.Value {
	switch t := v.(type) {
	case string:
		return value.String(t)
	case int8:
		return value.Int8(t)
	case int16:
		return value.Int16(t)
	case int32:
		return value.Int32(t)
	case int64:
		return value.Int64(t)
	case float32:
		return value.Float32(t)
	case float64:
		return value.Float64(t)
	case bool:
		return value.Bool(t)
	case kuzu.InternalID:
		return internalID(t)
	case kuzu.Node:
		return value.Node{
			ID:         internalID(t.ID),
			Label:      t.Label,
			Properties: properties(t.Properties),
		}
	case kuzu.Relationship:
		return value.Rel{
			Label:      t.Label,
			Src:        internalID(t.SourceID),
			Dst:        internalID(t.DestinationID),
			Properties: properties(t.Properties),
		}
	default:
		return value.Other{Raw: v}
	}
}

func internalID(id kuzu.InternalID) value.InternalID {
	return value.InternalID{TableID: id.TableID, Offset: id.Offset}
}

func properties(m map[string]any) value.Properties {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make(value.Properties, 0, len(keys))
	for _, k := range keys {
		props = append(props, value.Property{Key: k, Value: Convert(m[k])})
	}
	return props
}
