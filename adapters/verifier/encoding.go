package verifier

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/layer-3/walletauth/core"
	"github.com/mr-tron/base58"
)

// decodeStrategy turns a string in one encoding into bytes
type decodeStrategy struct {
	name   string
	decode func(string) ([]byte, error)
}

// signatureEncodings lists the encodings wallets have emitted signatures in,
// highest priority first.
var signatureEncodings = []decodeStrategy{
	{name: "base58", decode: base58.Decode},
	{name: "base64", decode: base64.StdEncoding.DecodeString},
	{name: "hex", decode: decodeHex},
}

func decodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.Decode(s)
	}
	return hex.DecodeString(s)
}

// DecodeSignature resolves a signature string of unknown encoding into its
// 64 raw bytes. A decode that succeeds with any other length counts as a
// failure and the next encoding is tried.
func DecodeSignature(s string) ([]byte, error) {
	b, _, err := decodeSignature(s)
	return b, err
}

func decodeSignature(s string) ([]byte, string, error) {
	if s == "" {
		return nil, "", core.ErrDecode
	}
	for _, enc := range signatureEncodings {
		b, err := enc.decode(s)
		if err != nil || len(b) != core.SignatureSize {
			continue
		}
		return b, enc.name, nil
	}
	return nil, "", core.ErrDecode
}

// DecodePayload decodes a base64 signed payload.
func DecodePayload(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
