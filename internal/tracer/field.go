package tracer

import (
	"fmt"

	"github.com/serde-arrow/serde-arrow-go/internal/config"
	"github.com/serde-arrow/serde-arrow-go/internal/schema"
)

// toField renders a converged hypothesis as a schema.Field, applying the
// date/time guesses and the dictionary-encoding and enum options that
// only make sense once tracing has finished.
func (h *hypothesis) toField(name string, opts config.TracingOptions) (schema.Field, error) {
	if h.state == Unknown {
		return schema.Field{Name: name, Type: schema.NullType(), Nullable: true}, nil
	}

	switch h.shape {
	case ShapeNone:
		return h.scalarField(name, opts)

	case ShapeStruct:
		children := make([]schema.Field, 0, len(h.childOrder))
		for _, cname := range h.childOrder {
			ch := h.children[cname]
			cf, err := ch.toField(cname, opts)
			if err != nil {
				return schema.Field{}, err
			}
			if h.childSeen[cname] < h.timesEntered {
				cf.Nullable = true
			}
			children = append(children, cf)
		}
		return schema.Field{Name: name, Type: schema.StructType(children...), Nullable: h.nullable}, nil

	case ShapeTuple:
		children := make([]schema.Field, 0, len(h.childOrder))
		for _, cname := range h.childOrder {
			cf, err := h.children[cname].toField(cname, opts)
			if err != nil {
				return schema.Field{}, err
			}
			children = append(children, cf)
		}
		f := schema.Field{Name: name, Type: schema.StructType(children...), Nullable: h.nullable}
		f.Metadata = schema.NewMetadata(nil)
		f.Metadata.SetStrategy(schema.TupleAsStruct)
		return f, nil

	case ShapeList:
		item := h.item
		if item == nil {
			item = newHypothesis(nil)
		}
		itemField, err := item.toField("item", opts)
		if err != nil {
			return schema.Field{}, err
		}
		var dt schema.DataType
		if opts.SequenceAsLargeList {
			dt = schema.LargeListType(itemField.Type, itemField.Nullable)
		} else {
			dt = schema.ListType(itemField.Type, itemField.Nullable)
		}
		return schema.Field{Name: name, Type: dt, Nullable: h.nullable}, nil

	case ShapeMap:
		key := h.key
		if key == nil {
			key = newHypothesis(nil)
		}
		val := h.value
		if val == nil {
			val = newHypothesis(nil)
		}
		keyField, err := key.toField("key", opts)
		if err != nil {
			return schema.Field{}, err
		}
		valField, err := val.toField("value", opts)
		if err != nil {
			return schema.Field{}, err
		}
		return schema.Field{
			Name:     name,
			Type:     schema.MapType(keyField.Type, valField.Type, valField.Nullable),
			Nullable: h.nullable,
		}, nil

	case ShapeUnion:
		return h.unionField(name, opts)

	default:
		return schema.Field{}, fmt.Errorf("%s: unresolved hypothesis", h.dotPath())
	}
}

func (h *hypothesis) scalarField(name string, opts config.TracingOptions) (schema.Field, error) {
	dt := h.dt
	strategy := schema.Strategy("")

	if opts.GuessDates && h.dateKind != "" && !h.dateGuessFailed && isStringlyDateCandidate(dt) {
		switch h.dateKind {
		case "utc-datetime":
			dt = schema.Date64Type()
			strategy = schema.UtcStrAsDate64
		case "naive-datetime":
			dt = schema.Date64Type()
			strategy = schema.NaiveStrAsDate64
		case "date":
			dt = schema.Date32Type()
		case "time":
			dt, _ = schema.Time64Type(schema.Nanosecond)
		}
	}

	if opts.StringsAsLargeUtf8 && dt.ID() == schema.Utf8 {
		dt = schema.LargeUtf8Type()
	}
	if opts.BytesAsLargeBinary && dt.ID() == schema.Binary {
		dt = schema.LargeBinaryType()
	}

	if opts.StringDictionaryEncoding && isStringLikeID(dt.ID()) && strategy == "" {
		ddt, err := schema.DictionaryType(schema.U32Type(), dt)
		if err != nil {
			return schema.Field{}, err
		}
		dt = ddt
	}

	f := schema.Field{Name: name, Type: dt, Nullable: h.nullable}
	if strategy != "" {
		f.Metadata = schema.NewMetadata(nil)
		f.Metadata.SetStrategy(strategy)
	}
	if opts.AllowToString && isStringLikeID(dt.ID()) {
		if f.Metadata.Len() == 0 {
			f.Metadata = schema.NewMetadata(nil)
		}
		f.Metadata.SetAllowToString(true)
	}
	return f, nil
}

func isStringlyDateCandidate(dt schema.DataType) bool {
	return dt.ID() == schema.Utf8 || dt.ID() == schema.LargeUtf8
}

func isStringLikeID(id schema.ID) bool {
	return id == schema.Utf8 || id == schema.LargeUtf8 || id == schema.Utf8View
}

// unionField renders a ShapeUnion hypothesis, collapsing to
// Dictionary(UInt32, Utf8) tagged EnumsWithoutDataAsStrings when every
// variant was observed to carry no data (see guessDate's sibling concern:
// a data-free enum variant is delivered as Variant followed by Null, so
// its hypothesis never leaves state Unknown).
func (h *hypothesis) unionField(name string, opts config.TracingOptions) (schema.Field, error) {
	allDataFree := opts.EnumsWithoutDataAsStrings && len(h.variantOrder) > 0
	for _, vname := range h.variantOrder {
		if h.variants[vname].state != Unknown {
			allDataFree = false
			break
		}
	}
	if allDataFree {
		dt, err := schema.DictionaryType(schema.U32Type(), schema.Utf8Type())
		if err != nil {
			return schema.Field{}, err
		}
		f := schema.Field{Name: name, Type: dt, Nullable: h.nullable}
		f.Metadata = schema.NewMetadata(nil)
		f.Metadata.SetStrategy(schema.EnumsWithoutDataAsStrings)
		return f, nil
	}

	if len(h.variantOrder) > 127 {
		return schema.Field{}, fmt.Errorf("%s: too many union variants (%d, max 127)", h.dotPath(), len(h.variantOrder))
	}
	variants := make([]schema.Field, len(h.variantOrder))
	typeIDs := make([]int8, len(h.variantOrder))
	for _, vname := range h.variantOrder {
		idx := h.variantIndex[vname]
		vf, err := h.variants[vname].toField(vname, opts)
		if err != nil {
			return schema.Field{}, err
		}
		variants[idx] = vf
		typeIDs[idx] = int8(idx)
	}
	dt, err := schema.DenseUnionType(variants, typeIDs)
	if err != nil {
		return schema.Field{}, err
	}
	return schema.Field{Name: name, Type: dt, Nullable: h.nullable}, nil
}
