package ldapwire

import (
	"github.com/google/uuid"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

// syncInfoOID is the RFC 4533 §2.5 OID carried in an IntermediateResponse
// whose responseValue is a syncInfoValue CHOICE.
const syncInfoOID = "1.3.6.1.4.1.4203.1.9.1.4"

const (
	syncInfoTagNewCookie      = 0
	syncInfoTagRefreshDelete  = 1
	syncInfoTagRefreshPresent = 2
	syncInfoTagIdSet          = 3
)

// SyncInfo is implemented by the four syncInfoValue CHOICE variants
// carried inside a sync-info IntermediateResponse, per RFC 4533 §2.5.
type SyncInfo interface {
	encodeSyncInfo(enc *ber.BEREncoder) error
}

// SyncInfoNewCookie is the [0] newcookie choice: a bare refreshed cookie.
type SyncInfoNewCookie struct {
	Cookie []byte
}

// SyncInfoRefreshDelete is the [1] refreshDelete choice, sent when the
// provider's delete phase of a refresh completes.
type SyncInfoRefreshDelete struct {
	Cookie []byte
	// Done defaults to true on the wire (refreshDone DEFAULT TRUE); a
	// false value means more refresh phases follow.
	Done bool
}

// SyncInfoRefreshPresent is the [2] refreshPresent choice, sent when the
// provider's present phase of a refresh completes.
type SyncInfoRefreshPresent struct {
	Cookie []byte
	Done   bool
}

// SyncInfoIdSet is the [3] syncIdSet choice, listing entry UUIDs the
// client should treat as present (or, if RefreshDeletes, absent) without
// resending each entry.
type SyncInfoIdSet struct {
	Cookie []byte
	// RefreshDeletes defaults to false on the wire.
	RefreshDeletes bool
	SyncUUIDs      []uuid.UUID
}

func (s SyncInfoNewCookie) encodeSyncInfo(enc *ber.BEREncoder) error {
	return enc.WriteTaggedValue(syncInfoTagNewCookie, false, s.Cookie)
}

func (s SyncInfoRefreshDelete) encodeSyncInfo(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(syncInfoTagRefreshDelete, true)
	if s.Cookie != nil {
		if err := enc.WriteOctetString(s.Cookie); err != nil {
			return err
		}
	}
	if !s.Done {
		if err := enc.WriteBoolean(false); err != nil {
			return err
		}
	}
	return enc.EndContextTag(pos)
}

func (s SyncInfoRefreshPresent) encodeSyncInfo(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(syncInfoTagRefreshPresent, true)
	if s.Cookie != nil {
		if err := enc.WriteOctetString(s.Cookie); err != nil {
			return err
		}
	}
	if !s.Done {
		if err := enc.WriteBoolean(false); err != nil {
			return err
		}
	}
	return enc.EndContextTag(pos)
}

func (s SyncInfoIdSet) encodeSyncInfo(enc *ber.BEREncoder) error {
	pos := enc.WriteContextTag(syncInfoTagIdSet, true)
	if s.Cookie != nil {
		if err := enc.WriteOctetString(s.Cookie); err != nil {
			return err
		}
	}
	if s.RefreshDeletes {
		if err := enc.WriteBoolean(true); err != nil {
			return err
		}
	}
	setPos := enc.BeginSet()
	for _, id := range s.SyncUUIDs {
		b := id
		if err := enc.WriteOctetString(b[:]); err != nil {
			return err
		}
	}
	if err := enc.EndSet(setPos); err != nil {
		return err
	}
	return enc.EndContextTag(pos)
}

// decodeSyncInfoValue parses the content of a sync-info
// IntermediateResponse's responseValue OCTET STRING, which itself holds
// the BER encoding of a syncInfoValue CHOICE.
func decodeSyncInfoValue(data []byte) (SyncInfo, error) {
	dec := ber.NewBERDecoder(data)
	class, _, tag, err := dec.PeekTag()
	if err != nil {
		return nil, err
	}
	if class != ber.ClassContextSpecific {
		return nil, &OperationError{Op: "SyncInfo", Message: "expected context-specific CHOICE tag"}
	}

	switch tag {
	case syncInfoTagNewCookie:
		_, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		return SyncInfoNewCookie{Cookie: value}, nil

	case syncInfoTagRefreshDelete, syncInfoTagRefreshPresent:
		sub, err := dec.ReadContextTagContents(tag)
		if err != nil {
			return nil, err
		}
		cookie, err := decodeOptionalCookie(sub)
		if err != nil {
			return nil, err
		}
		done := true
		if b, ok, err := decodeOptionalBoolean(sub); err != nil {
			return nil, err
		} else if ok {
			done = b
		}
		if tag == syncInfoTagRefreshDelete {
			return SyncInfoRefreshDelete{Cookie: cookie, Done: done}, nil
		}
		return SyncInfoRefreshPresent{Cookie: cookie, Done: done}, nil

	case syncInfoTagIdSet:
		sub, err := dec.ReadContextTagContents(syncInfoTagIdSet)
		if err != nil {
			return nil, err
		}
		cookie, err := decodeOptionalCookie(sub)
		if err != nil {
			return nil, err
		}
		refreshDeletes := false
		if b, ok, err := decodeOptionalBoolean(sub); err != nil {
			return nil, err
		} else if ok {
			refreshDeletes = b
		}
		var ids []uuid.UUID
		if sub.Remaining() > 0 {
			setDec, err := sub.ReadSetContents()
			if err != nil {
				return nil, &OperationError{Op: "SyncInfo", Message: "failed to read syncUUIDs", Err: err}
			}
			for setDec.Remaining() > 0 {
				raw, err := setDec.ReadOctetString()
				if err != nil {
					return nil, &OperationError{Op: "SyncInfo", Message: "failed to read syncUUID", Err: err}
				}
				id, err := uuid.FromBytes(raw)
				if err != nil {
					return nil, &OperationError{Op: "SyncInfo", Message: "malformed syncUUID", Err: err}
				}
				ids = append(ids, id)
			}
		}
		return SyncInfoIdSet{Cookie: cookie, RefreshDeletes: refreshDeletes, SyncUUIDs: ids}, nil

	default:
		return nil, &OperationError{Op: "SyncInfo", Message: "unknown syncInfoValue CHOICE tag"}
	}
}

// decodeOptionalCookie reads a leading universal OCTET STRING (syncCookie)
// if one is present at dec's current position, returning (nil, nil)
// otherwise.
func decodeOptionalCookie(dec *ber.BERDecoder) ([]byte, error) {
	if dec.Remaining() == 0 {
		return nil, nil
	}
	class, _, tag, err := dec.PeekTag()
	if err != nil {
		return nil, err
	}
	if class != ber.ClassUniversal || tag != ber.TagOctetString {
		return nil, nil
	}
	return dec.ReadOctetString()
}

// decodeOptionalBoolean reads a leading universal BOOLEAN if present,
// reporting ok=false when absent.
func decodeOptionalBoolean(dec *ber.BERDecoder) (value bool, ok bool, err error) {
	if dec.Remaining() == 0 {
		return false, false, nil
	}
	class, _, tag, err := dec.PeekTag()
	if err != nil {
		return false, false, err
	}
	if class != ber.ClassUniversal || tag != ber.TagBoolean {
		return false, false, nil
	}
	v, err := dec.ReadBoolean()
	if err != nil {
		return false, false, err
	}
	return v, true, nil
}

// IntermediateResponse is RFC 4511 §4.13's IntermediateResponse:
//
//	IntermediateResponse ::= [APPLICATION 25] SEQUENCE {
//	    responseName     [0] LDAPOID OPTIONAL,
//	    responseValue    [1] OCTET STRING OPTIONAL
//	}
//
// When Name is the RFC 4533 sync-info OID, SyncInfo holds the decoded
// syncInfoValue CHOICE and Value holds its raw bytes. Any other
// responseName decodes with SyncInfo left nil.
type IntermediateResponse struct {
	Name     *string
	Value    []byte
	SyncInfo SyncInfo
}

func (IntermediateResponse) applicationTag() int          { return tagIntermediateResponse }
func (IntermediateResponse) applicationConstructed() bool { return true }

func (r IntermediateResponse) encodeBody(enc *ber.BEREncoder) error {
	if r.SyncInfo != nil {
		oid := syncInfoOID
		if err := enc.WriteTaggedValue(0, false, []byte(oid)); err != nil {
			return err
		}
		inner := ber.NewBEREncoder(32)
		if err := r.SyncInfo.encodeSyncInfo(inner); err != nil {
			return err
		}
		return enc.WriteTaggedValue(1, false, inner.Bytes())
	}
	if r.Name != nil {
		if err := enc.WriteTaggedValue(0, false, []byte(*r.Name)); err != nil {
			return err
		}
	}
	if r.Value != nil {
		if err := enc.WriteTaggedValue(1, false, r.Value); err != nil {
			return err
		}
	}
	return nil
}

func decodeIntermediateResponse(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	resp := IntermediateResponse{}
	for dec.Remaining() > 0 {
		tagNum, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, &OperationError{Op: "IntermediateResponse", Offset: dec.Offset(), Message: "failed to read optional field", Err: err}
		}
		switch tagNum {
		case 0:
			s := string(value)
			resp.Name = &s
		case 1:
			resp.Value = value
		}
	}

	if resp.Name != nil && *resp.Name == syncInfoOID && resp.Value != nil {
		if si, err := decodeSyncInfoValue(resp.Value); err == nil {
			resp.SyncInfo = si
		}
	}

	return resp, nil
}
