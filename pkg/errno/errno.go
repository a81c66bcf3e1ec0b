package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno.
// Wrapped errors (fmt.Errorf("...: %w", ErrX)) keep their code, the message is the full chain.
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrInvalidRequest   = Errno{Code: 10003, Message: "Invalid request"}
)

// Key material errors (30100+)
var (
	ErrInvalidSeedLength = Errno{Code: 30101, Message: "invalid seed length"}
	ErrInvalidScalar     = Errno{Code: 30102, Message: "invalid scalar"}
	ErrInvalidKeyBytes   = Errno{Code: 30103, Message: "invalid key bytes"}
	ErrInvalidPoint      = Errno{Code: 30104, Message: "invalid point"}
)

// Derivation errors (30200+)
var (
	ErrHardenedRequiresPrivateKey = Errno{Code: 30201, Message: "hardened derivation requires a private key"}
	ErrUnluckyIndex               = Errno{Code: 30202, Message: "computed child key is not valid, unlucky index"}
	ErrMaxDepthExceeded           = Errno{Code: 30203, Message: "cannot derive beyond depth 255"}
	ErrMissingChainCode           = Errno{Code: 30204, Message: "key has no chain code"}
)

// Engine state errors (30300+)
var (
	ErrUnsupportedOperation = Errno{Code: 30301, Message: "unsupported operation"}
	ErrRootAlreadySet       = Errno{Code: 30302, Message: "root key already set"}
	ErrRootNotSet           = Errno{Code: 30303, Message: "root key not set"}
)

// Extended key errors (30400+)
var (
	ErrInvalidExtendedKey = Errno{Code: 30401, Message: "invalid extended key"}
	ErrVersionMismatch    = Errno{Code: 30402, Message: "extended key version mismatch"}
	ErrStrictRoot         = Errno{Code: 30403, Message: "extended key is not a root key"}
)

// Descriptor errors (30500+)
var (
	ErrInvalidPath       = Errno{Code: 30501, Message: "invalid derivation path"}
	ErrRangeNotResolved  = Errno{Code: 30502, Message: "derivation contains an unresolved range"}
	ErrInvalidDerivation = Errno{Code: 30503, Message: "invalid derivation"}
)
