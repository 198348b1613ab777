package ldapwire

import "fmt"

// LDAP protocol operation tags (APPLICATION class), per RFC 4511 §4.2.
const (
	tagBindRequest           = 0
	tagBindResponse          = 1
	tagUnbindRequest         = 2
	tagSearchRequest         = 3
	tagSearchResultEntry     = 4
	tagSearchResultDone      = 5
	tagModifyRequest         = 6
	tagModifyResponse        = 7
	tagAddRequest            = 8
	tagAddResponse           = 9
	tagDelRequest            = 10
	tagDelResponse           = 11
	tagAbandonRequest        = 16
	tagExtendedRequest       = 23
	tagExtendedResponse      = 24
	tagIntermediateResponse  = 25
)

// Context-specific tag used for the Controls field on the message envelope.
const tagControls = 0

// MinMessageID and MaxMessageID bound the LDAP MessageID wire range.
// MessageID ::= INTEGER (0 .. maxInt), maxInt = 2^31 - 1.
const (
	MinMessageID = 0
	MaxMessageID = 2147483647
)

// ResultCode is the numeric outcome of an LDAP operation, per RFC 4511
// §4.1.9, extended with the RFC 4533 sync-specific code.
type ResultCode int

const (
	ResultSuccess                      ResultCode = 0
	ResultOperationsError              ResultCode = 1
	ResultProtocolError                ResultCode = 2
	ResultTimeLimitExceeded            ResultCode = 3
	ResultSizeLimitExceeded            ResultCode = 4
	ResultCompareFalse                 ResultCode = 5
	ResultCompareTrue                  ResultCode = 6
	ResultAuthMethodNotSupported       ResultCode = 7
	ResultStrongerAuthRequired         ResultCode = 8
	ResultReferral                     ResultCode = 10
	ResultAdminLimitExceeded           ResultCode = 11
	ResultUnavailableCriticalExtension ResultCode = 12
	ResultConfidentialityRequired      ResultCode = 13
	ResultSASLBindInProgress           ResultCode = 14
	ResultNoSuchAttribute              ResultCode = 16
	ResultUndefinedAttributeType       ResultCode = 17
	ResultInappropriateMatching        ResultCode = 18
	ResultConstraintViolation          ResultCode = 19
	ResultAttributeOrValueExists       ResultCode = 20
	ResultInvalidAttributeSyntax       ResultCode = 21
	ResultNoSuchObject                 ResultCode = 32
	ResultAliasProblem                 ResultCode = 33
	ResultInvalidDNSyntax              ResultCode = 34
	ResultAliasDereferencingProblem    ResultCode = 36
	ResultInappropriateAuthentication  ResultCode = 48
	ResultInvalidCredentials           ResultCode = 49
	ResultInsufficientAccessRights     ResultCode = 50
	ResultBusy                         ResultCode = 51
	ResultUnavailable                  ResultCode = 52
	ResultUnwillingToPerform           ResultCode = 53
	ResultLoopDetect                   ResultCode = 54
	ResultNamingViolation              ResultCode = 64
	ResultObjectClassViolation         ResultCode = 65
	ResultNotAllowedOnNonLeaf          ResultCode = 66
	ResultNotAllowedOnRDN              ResultCode = 67
	ResultEntryAlreadyExists           ResultCode = 68
	ResultObjectClassModsProhibited    ResultCode = 69
	ResultAffectsMultipleDSAs          ResultCode = 71
	ResultOther                        ResultCode = 80
	// ResultEsyncRefreshRequired is returned by a content-sync provider
	// (RFC 4533 §3.6) to indicate the client's cookie is too old for an
	// incremental refresh and a full resync is required.
	ResultEsyncRefreshRequired ResultCode = 4096
)

var resultCodeNames = map[ResultCode]string{
	ResultSuccess:                      "success",
	ResultOperationsError:              "operationsError",
	ResultProtocolError:                "protocolError",
	ResultTimeLimitExceeded:            "timeLimitExceeded",
	ResultSizeLimitExceeded:            "sizeLimitExceeded",
	ResultCompareFalse:                 "compareFalse",
	ResultCompareTrue:                  "compareTrue",
	ResultAuthMethodNotSupported:       "authMethodNotSupported",
	ResultStrongerAuthRequired:         "strongerAuthRequired",
	ResultReferral:                     "referral",
	ResultAdminLimitExceeded:           "adminLimitExceeded",
	ResultUnavailableCriticalExtension: "unavailableCriticalExtension",
	ResultConfidentialityRequired:      "confidentialityRequired",
	ResultSASLBindInProgress:           "saslBindInProgress",
	ResultNoSuchAttribute:              "noSuchAttribute",
	ResultUndefinedAttributeType:       "undefinedAttributeType",
	ResultInappropriateMatching:        "inappropriateMatching",
	ResultConstraintViolation:          "constraintViolation",
	ResultAttributeOrValueExists:       "attributeOrValueExists",
	ResultInvalidAttributeSyntax:       "invalidAttributeSyntax",
	ResultNoSuchObject:                 "noSuchObject",
	ResultAliasProblem:                 "aliasProblem",
	ResultInvalidDNSyntax:              "invalidDNSyntax",
	ResultAliasDereferencingProblem:    "aliasDereferencingProblem",
	ResultInappropriateAuthentication:  "inappropriateAuthentication",
	ResultInvalidCredentials:           "invalidCredentials",
	ResultInsufficientAccessRights:     "insufficientAccessRights",
	ResultBusy:                         "busy",
	ResultUnavailable:                  "unavailable",
	ResultUnwillingToPerform:           "unwillingToPerform",
	ResultLoopDetect:                   "loopDetect",
	ResultNamingViolation:              "namingViolation",
	ResultObjectClassViolation:         "objectClassViolation",
	ResultNotAllowedOnNonLeaf:          "notAllowedOnNonLeaf",
	ResultNotAllowedOnRDN:              "notAllowedOnRDN",
	ResultEntryAlreadyExists:           "entryAlreadyExists",
	ResultObjectClassModsProhibited:    "objectClassModsProhibited",
	ResultAffectsMultipleDSAs:          "affectsMultipleDSAs",
	ResultOther:                        "other",
	ResultEsyncRefreshRequired:         "esyncRefreshRequired",
}

// String returns the RFC 4511 name of the result code, or "unknown(N)"
// for a numeric value outside the known table.
func (r ResultCode) String() string {
	if name, ok := resultCodeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// IsSuccess reports whether the result code indicates success. Note that
// CompareTrue/CompareFalse/Referral/SASLBindInProgress are not failures
// either, but are also not "success" in the Result-builder sense.
func (r ResultCode) IsSuccess() bool { return r == ResultSuccess }

// SearchScope is the scope of a SearchRequest, per RFC 4511 §4.5.1.
type SearchScope int

const (
	ScopeBaseObject   SearchScope = 0
	ScopeSingleLevel  SearchScope = 1
	ScopeWholeSubtree SearchScope = 2
)

func (s SearchScope) String() string {
	switch s {
	case ScopeBaseObject:
		return "baseObject"
	case ScopeSingleLevel:
		return "singleLevel"
	case ScopeWholeSubtree:
		return "wholeSubtree"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// DerefAliases controls alias dereferencing during a search, per
// RFC 4511 §4.5.1.
type DerefAliases int

const (
	NeverDerefAliases   DerefAliases = 0
	DerefInSearching    DerefAliases = 1
	DerefFindingBaseObj DerefAliases = 2
	DerefAlways         DerefAliases = 3
)

func (d DerefAliases) String() string {
	switch d {
	case NeverDerefAliases:
		return "neverDerefAliases"
	case DerefInSearching:
		return "derefInSearching"
	case DerefFindingBaseObj:
		return "derefFindingBaseObj"
	case DerefAlways:
		return "derefAlways"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ModifyOp is the kind of change applied to an attribute by a
// ModifyRequest, per RFC 4511 §4.6.
type ModifyOp int

const (
	ModifyAdd     ModifyOp = 0
	ModifyDelete  ModifyOp = 1
	ModifyReplace ModifyOp = 2
)

func (m ModifyOp) String() string {
	switch m {
	case ModifyAdd:
		return "add"
	case ModifyDelete:
		return "delete"
	case ModifyReplace:
		return "replace"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// PartialAttribute is an attribute type name paired with its raw values.
// Per RFC 4511 §4.1.7, the type is a UTF-8 attribute description; values
// are arbitrary bytes with no encoding guarantee.
type PartialAttribute struct {
	Type   string
	Values [][]byte
}

// Result is the common outcome structure shared by every LDAP response,
// per RFC 4511 §4.1.9.
type Result struct {
	Code      ResultCode
	MatchedDN string
	Message   string
	// Referral holds URIs from the optional [3] Referral field. On
	// decode this is always left empty: the referral tag is recognized
	// and skipped but its contents are not retained (see DESIGN.md).
	// Encode writes the tag only when the caller populates this slice.
	Referral []string
}

// Modification is a single change within a ModifyRequest.
type Modification struct {
	Operation    ModifyOp
	Modification PartialAttribute
}
