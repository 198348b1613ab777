package ldapwire

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

// Control OIDs recognized on decode. Any other OID fails with
// ControlError and is dropped by the Message-level caller rather than
// failing the whole decode — see decodeControlsField.
const (
	syncRequestOID = "1.3.6.1.4.1.4203.1.9.1.1"
	syncStateOID   = "1.3.6.1.4.1.4203.1.9.1.2"
	syncDoneOID    = "1.3.6.1.4.1.4203.1.9.1.3"
	adDirsyncOID   = "1.2.840.113556.1.4.841"
)

// SyncRequestMode is RFC 4533 §2.2's syncRequestValue.mode.
type SyncRequestMode int

const (
	SyncRequestModeRefreshOnly       SyncRequestMode = 1
	SyncRequestModeRefreshAndPersist SyncRequestMode = 3
)

// SyncStateValue is RFC 4533 §2.4's syncStateValue.state.
type SyncStateValue int

const (
	SyncStatePresent SyncStateValue = 0
	SyncStateAdd     SyncStateValue = 1
	SyncStateModify  SyncStateValue = 2
	SyncStateDelete  SyncStateValue = 3
)

// Control is implemented by every recognized control type. It is a
// closed set: an unrecognized OID never reaches caller code as a Control
// value — it is reported as a ControlError and dropped at the message
// level (see decodeControlsField).
type Control interface {
	controlOID() string
	controlCriticality() bool
	encodeValue(enc *ber.BEREncoder) error
}

// SyncRequestControl is RFC 4533 §2.2's syncRequestValue, sent by a
// client to request content synchronization.
type SyncRequestControl struct {
	Criticality bool
	Mode        SyncRequestMode
	Cookie      []byte
	ReloadHint  bool
}

func (c SyncRequestControl) controlOID() string        { return syncRequestOID }
func (c SyncRequestControl) controlCriticality() bool   { return c.Criticality }

func (c SyncRequestControl) encodeValue(enc *ber.BEREncoder) error {
	if err := enc.WriteEnumerated(int64(c.Mode)); err != nil {
		return err
	}
	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return err
		}
	}
	if c.ReloadHint {
		if err := enc.WriteBoolean(true); err != nil {
			return err
		}
	}
	return nil
}

// SyncStateControl is RFC 4533 §2.4's syncStateValue, attached to a
// SearchResultEntry during a sync session.
type SyncStateControl struct {
	State     SyncStateValue
	EntryUUID uuid.UUID
	Cookie    []byte
}

func (c SyncStateControl) controlOID() string      { return syncStateOID }
func (c SyncStateControl) controlCriticality() bool { return false }

func (c SyncStateControl) encodeValue(enc *ber.BEREncoder) error {
	if err := enc.WriteEnumerated(int64(c.State)); err != nil {
		return err
	}
	id := c.EntryUUID
	if err := enc.WriteOctetString(id[:]); err != nil {
		return err
	}
	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return err
		}
	}
	return nil
}

// SyncDoneControl is RFC 4533 §2.3's syncDoneValue, attached to a
// SearchResultDone closing out a sync session.
type SyncDoneControl struct {
	Cookie         []byte
	RefreshDeletes bool
}

func (c SyncDoneControl) controlOID() string      { return syncDoneOID }
func (c SyncDoneControl) controlCriticality() bool { return false }

func (c SyncDoneControl) encodeValue(enc *ber.BEREncoder) error {
	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return err
		}
	}
	if c.RefreshDeletes {
		if err := enc.WriteBoolean(true); err != nil {
			return err
		}
	}
	return nil
}

// AdDirsyncControl is Microsoft's Active Directory DirSync control,
// always encoded with criticality=true.
type AdDirsyncControl struct {
	Flags    int64
	MaxBytes int64
	Cookie   []byte
}

func (c AdDirsyncControl) controlOID() string      { return adDirsyncOID }
func (c AdDirsyncControl) controlCriticality() bool { return true }

func (c AdDirsyncControl) encodeValue(enc *ber.BEREncoder) error {
	if err := enc.WriteInteger(c.Flags); err != nil {
		return err
	}
	if err := enc.WriteInteger(c.MaxBytes); err != nil {
		return err
	}
	return enc.WriteOctetString(c.Cookie)
}

// encodeControl writes one Control as its SEQUENCE { oid, criticality?,
// envelope? }, per RFC 4511 §4.1.11.
func encodeControl(enc *ber.BEREncoder, c Control) error {
	pos := enc.BeginSequence()
	if err := enc.WriteOctetString([]byte(c.controlOID())); err != nil {
		return err
	}
	if c.controlCriticality() {
		if err := enc.WriteBoolean(true); err != nil {
			return err
		}
	}
	inner := ber.NewBEREncoder(32)
	if err := c.encodeValue(inner); err != nil {
		return err
	}
	if err := enc.WriteOctetString(inner.Bytes()); err != nil {
		return err
	}
	return enc.EndSequence(pos)
}

// decodeControl reads one Control SEQUENCE from dec and routes its
// envelope by OID. An unrecognized OID, or an envelope that fails its
// type-specific decode, is reported as a *ControlError.
func decodeControl(dec *ber.BERDecoder) (Control, error) {
	sub, err := dec.ReadSequenceContents()
	if err != nil {
		return nil, err
	}

	oidBytes, err := sub.ReadOctetString()
	if err != nil {
		return nil, &ControlError{Message: "failed to read oid", Err: err}
	}
	oid := string(oidBytes)

	criticality := false
	if sub.Remaining() > 0 {
		if class, _, tag, err := sub.PeekTag(); err == nil && class == ber.ClassUniversal && tag == ber.TagBoolean {
			criticality, err = sub.ReadBoolean()
			if err != nil {
				return nil, &ControlError{OID: oid, Message: "failed to read criticality", Err: err}
			}
		}
	}

	var envelope []byte
	if sub.Remaining() > 0 {
		envelope, err = sub.ReadOctetString()
		if err != nil {
			return nil, &ControlError{OID: oid, Message: "failed to read value envelope", Err: err}
		}
	}

	switch oid {
	case syncRequestOID:
		return decodeSyncRequestControl(oid, criticality, envelope)
	case syncStateOID:
		return decodeSyncStateControl(oid, envelope)
	case syncDoneOID:
		return decodeSyncDoneControl(oid, envelope)
	case adDirsyncOID:
		return decodeAdDirsyncControl(oid, envelope)
	default:
		return nil, &ControlError{OID: oid, Message: "unsupported control oid"}
	}
}

func decodeSyncRequestControl(oid string, criticality bool, envelope []byte) (Control, error) {
	dec := ber.NewBERDecoder(envelope)
	mode, err := dec.ReadEnumerated()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read mode", Err: err}
	}
	c := SyncRequestControl{Criticality: criticality, Mode: SyncRequestMode(mode)}
	if cookie, ok, err := decodeOptionalOctetString(dec); err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read cookie", Err: err}
	} else if ok {
		c.Cookie = cookie
	}
	if reloadHint, ok, err := decodeOptionalBoolean(dec); err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read reloadHint", Err: err}
	} else if ok {
		c.ReloadHint = reloadHint
	}
	return c, nil
}

func decodeSyncStateControl(oid string, envelope []byte) (Control, error) {
	dec := ber.NewBERDecoder(envelope)
	state, err := dec.ReadEnumerated()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read state", Err: err}
	}
	idBytes, err := dec.ReadOctetString()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read entryUUID", Err: err}
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "entryUUID must be 16 bytes", Err: err}
	}
	c := SyncStateControl{State: SyncStateValue(state), EntryUUID: id}
	if cookie, ok, err := decodeOptionalOctetString(dec); err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read cookie", Err: err}
	} else if ok {
		c.Cookie = cookie
	}
	return c, nil
}

func decodeSyncDoneControl(oid string, envelope []byte) (Control, error) {
	dec := ber.NewBERDecoder(envelope)
	c := SyncDoneControl{}
	if cookie, ok, err := decodeOptionalOctetString(dec); err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read cookie", Err: err}
	} else if ok {
		c.Cookie = cookie
	}
	if refreshDeletes, ok, err := decodeOptionalBoolean(dec); err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read refreshDeletes", Err: err}
	} else if ok {
		c.RefreshDeletes = refreshDeletes
	}
	return c, nil
}

func decodeAdDirsyncControl(oid string, envelope []byte) (Control, error) {
	dec := ber.NewBERDecoder(envelope)
	flags, err := dec.ReadInteger()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read flags", Err: err}
	}
	maxBytes, err := dec.ReadInteger()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read maxBytes", Err: err}
	}
	cookie, err := dec.ReadOctetString()
	if err != nil {
		return nil, &ControlError{OID: oid, Message: "failed to read cookie", Err: err}
	}
	return AdDirsyncControl{Flags: flags, MaxBytes: maxBytes, Cookie: cookie}, nil
}

// decodeOptionalOctetString reads a leading universal OCTET STRING if
// present, reporting ok=false when absent.
func decodeOptionalOctetString(dec *ber.BERDecoder) (value []byte, ok bool, err error) {
	if dec.Remaining() == 0 {
		return nil, false, nil
	}
	class, _, tag, err := dec.PeekTag()
	if err != nil {
		return nil, false, err
	}
	if class != ber.ClassUniversal || tag != ber.TagOctetString {
		return nil, false, nil
	}
	v, err := dec.ReadOctetString()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// decodeControlsField reads the Controls field — [0] SEQUENCE OF Control,
// context-class and constructed, with the outer SEQUENCE tag merged into
// the context tag by implicit tagging — once the caller has established
// the tag is present. Controls that fail to decode are dropped rather
// than failing the whole message, per RFC 4511 peer-tolerance practice;
// logger, if non-nil, is given a Debug record for each drop.
func decodeControlsField(dec *ber.BERDecoder, logger *slog.Logger) ([]Control, error) {
	sub, err := dec.ReadContextTagContents(tagControls)
	if err != nil {
		return nil, err
	}

	var controls []Control
	for sub.Remaining() > 0 {
		c, err := decodeControl(sub)
		if err != nil {
			if logger != nil {
				logger.Debug("ldapwire: dropping malformed control", slogErrAttr(err))
			}
			continue
		}
		controls = append(controls, c)
	}
	return controls, nil
}

// encodeControlsField writes the Controls field for a non-empty control
// list.
func encodeControlsField(enc *ber.BEREncoder, controls []Control) error {
	pos := enc.WriteContextTag(tagControls, true)
	for _, c := range controls {
		if err := encodeControl(enc, c); err != nil {
			return err
		}
	}
	return enc.EndContextTag(pos)
}

func slogErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}
