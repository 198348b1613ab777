package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// Filter context tags, per RFC 4511 §4.5.1's Filter CHOICE. Only the
// variants listed here are implemented; greaterOrEqual, lessOrEqual,
// approxMatch, and extensibleMatch are Non-goals and decode to
// ErrUnsupportedFilter.
const (
	filterTagAnd            = 0
	filterTagOr             = 1
	filterTagNot            = 2
	filterTagEquality       = 3
	filterTagSubstring      = 4
	filterTagGreaterOrEqual = 5
	filterTagLessOrEqual    = 6
	filterTagPresent        = 7
	filterTagApproxMatch    = 8
	filterTagExtensible     = 9
)

const (
	substringTagInitial = 0
	substringTagAny     = 1
	substringTagFinal   = 2
)

// Filter is implemented by every supported SearchRequest filter variant.
type Filter interface {
	encodeFilter(enc *ber.BEREncoder) error
}

// FilterAnd is the RFC 4515 "&" filter: all children must match.
type FilterAnd []Filter

// FilterOr is the RFC 4515 "|" filter: at least one child must match.
type FilterOr []Filter

// FilterNot is the RFC 4515 "!" filter: negates its single child.
type FilterNot struct{ Filter Filter }

// FilterEquality is an attribute/value equality match.
type FilterEquality struct {
	Attr  string
	Value string
}

// FilterSubstring is a substring match split into an optional leading
// (Initial), zero or more middle (Any), and optional trailing (Final)
// piece, mirroring how `*` splits an RFC 4515 substring value.
type FilterSubstring struct {
	Attr    string
	Initial *string
	Any     []string
	Final   *string
}

// FilterPresent matches any entry that has at least one value for Attr.
type FilterPresent struct{ Attr string }

func (f FilterAnd) encodeFilter(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(filterTagAnd, true)
	for _, child := range f {
		if err := child.encodeFilter(enc); err != nil {
			return err
		}
	}
	return enc.EndContextTag(pos)
}

func (f FilterOr) encodeFilter(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(filterTagOr, true)
	for _, child := range f {
		if err := child.encodeFilter(enc); err != nil {
			return err
		}
	}
	return enc.EndContextTag(pos)
}

func (f FilterNot) encodeFilter(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(filterTagNot, true)
	if err := f.Filter.encodeFilter(enc); err != nil {
		return err
	}
	return enc.EndContextTag(pos)
}

func (f FilterEquality) encodeFilter(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(filterTagEquality, true)
	if err := enc.WriteOctetString([]byte(f.Attr)); err != nil {
		return err
	}
	if err := enc.WriteOctetString([]byte(f.Value)); err != nil {
		return err
	}
	return enc.EndContextTag(pos)
}

func (f FilterSubstring) encodeFilter(enc *ber.BEREncoder) error {
	outer := enc.WriteContextTag(filterTagSubstring, true)
	if err := enc.WriteOctetString([]byte(f.Attr)); err != nil {
		return err
	}
	partsPos := enc.BeginSequence()
	if f.Initial != nil {
		if err := enc.WriteTaggedValue(substringTagInitial, false, []byte(*f.Initial)); err != nil {
			return err
		}
	}
	for _, any := range f.Any {
		if err := enc.WriteTaggedValue(substringTagAny, false, []byte(any)); err != nil {
			return err
		}
	}
	if f.Final != nil {
		if err := enc.WriteTaggedValue(substringTagFinal, false, []byte(*f.Final)); err != nil {
			return err
		}
	}
	if err := enc.EndSequence(partsPos); err != nil {
		return err
	}
	return enc.EndContextTag(outer)
}

func (f FilterPresent) encodeFilter(enc *ber.BEREncoder) error {
	return enc.WriteTaggedValue(filterTagPresent, false, []byte(f.Attr))
}

// decodeFilter reads one Filter element (context-tagged per the table
// above) from dec.
func decodeFilter(dec *ber.BERDecoder) (Filter, error) {
	class, constructed, tag, err := dec.PeekTag()
	if err != nil {
		return nil, err
	}
	if class != ber.ClassContextSpecific {
		return nil, &OperationError{Op: "Filter", Message: "expected context-specific filter tag"}
	}

	switch tag {
	case filterTagAnd, filterTagOr:
		sub, err := dec.ReadContextTagContents(tag)
		if err != nil {
			return nil, err
		}
		var children []Filter
		for sub.Remaining() > 0 {
			child, err := decodeFilter(sub)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if tag == filterTagAnd {
			return FilterAnd(children), nil
		}
		return FilterOr(children), nil

	case filterTagNot:
		sub, err := dec.ReadContextTagContents(filterTagNot)
		if err != nil {
			return nil, err
		}
		child, err := decodeFilter(sub)
		if err != nil {
			return nil, err
		}
		return FilterNot{Filter: child}, nil

	case filterTagEquality:
		sub, err := dec.ReadContextTagContents(filterTagEquality)
		if err != nil {
			return nil, err
		}
		attr, err := sub.ReadOctetString()
		if err != nil {
			return nil, &OperationError{Op: "Filter", Message: "equality: failed to read attribute", Err: err}
		}
		value, err := sub.ReadOctetString()
		if err != nil {
			return nil, &OperationError{Op: "Filter", Message: "equality: failed to read value", Err: err}
		}
		return FilterEquality{Attr: string(attr), Value: string(value)}, nil

	case filterTagSubstring:
		return decodeSubstringFilter(dec)

	case filterTagPresent:
		_, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		return FilterPresent{Attr: string(value)}, nil

	case filterTagGreaterOrEqual, filterTagLessOrEqual, filterTagApproxMatch, filterTagExtensible:
		return nil, &OperationError{Op: "Filter", Message: "unsupported filter kind", Err: ErrUnsupportedFilter}

	default:
		_ = constructed
		return nil, &OperationError{Op: "Filter", Message: "unknown filter tag", Err: ErrUnsupportedFilter}
	}
}

// decodeSubstringFilter reads a Substring filter body:
//
//	SubstringFilter ::= SEQUENCE {
//	    type           AttributeDescription,
//	    substrings     SEQUENCE SIZE (1..MAX) OF substring CHOICE {
//	        initial  [0] AssertionValue,
//	        any      [1] AssertionValue,
//	        final    [2] AssertionValue
//	    }
//	}
//
// initial, when present, must be the first component; final, when
// present, must be the last. Zero-length parts are tolerated (see
// SPEC_FULL.md §9) — this preserves the source behavior exactly.
func decodeSubstringFilter(dec *ber.BERDecoder) (Filter, error) {
	sub, err := dec.ReadContextTagContents(filterTagSubstring)
	if err != nil {
		return nil, err
	}

	attr, err := sub.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "Filter", Message: "substring: failed to read attribute", Err: err}
	}

	partsDec, err := sub.ReadSequenceContents()
	if err != nil {
		return nil, &OperationError{Op: "Filter", Message: "substring: failed to read substrings sequence", Err: err}
	}

	sf := FilterSubstring{Attr: string(attr)}
	seenFinal := false
	first := true

	for partsDec.Remaining() > 0 {
		tagNum, _, value, err := partsDec.ReadTaggedValue()
		if err != nil {
			return nil, &OperationError{Op: "Filter", Message: "substring: failed to read part", Err: err}
		}
		s := string(value)

		switch tagNum {
		case substringTagInitial:
			if !first {
				return nil, &OperationError{Op: "Filter", Message: "substring: initial must be the first part"}
			}
			sf.Initial = &s
		case substringTagAny:
			if seenFinal {
				return nil, &OperationError{Op: "Filter", Message: "substring: any part found after final"}
			}
			sf.Any = append(sf.Any, s)
		case substringTagFinal:
			if seenFinal {
				return nil, &OperationError{Op: "Filter", Message: "substring: final must appear at most once"}
			}
			sf.Final = &s
			seenFinal = true
		default:
			return nil, &OperationError{Op: "Filter", Message: "substring: unknown part tag"}
		}
		first = false
	}

	return sf, nil
}
