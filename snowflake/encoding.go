package snowflake

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// 解码（JSON/MessagePack/BSON 及各 Parse 函数）统一使用 DefaultEpoch，
// 其它纪元请先取出整数再调用 Epoch.ParseID

const base58Alphabet = "123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

var base58Index [256]byte

func init() {
	for i := range base58Index {
		base58Index[i] = 0xFF
	}
	for i := 0; i < len(base58Alphabet); i++ {
		base58Index[base58Alphabet[i]] = byte(i)
	}
}

// ErrInvalidBase58 包含 base58 字母表以外的字符或超出 64 位
var ErrInvalidBase58 = errors.New("snowflake: invalid base58")

// Base2 二进制字符串
func (id ID) Base2() string {
	return strconv.FormatUint(id.Uint64(), 2)
}

// Base36 36 进制字符串
func (id ID) Base36() string {
	return strconv.FormatUint(id.Uint64(), 36)
}

// Base58 使用 Flickr 字母表的 58 进制字符串
func (id ID) Base58() string {
	v := id.Uint64()
	if v < 58 {
		return string(base58Alphabet[v])
	}

	b := make([]byte, 0, 11)
	for v > 0 {
		b = append(b, base58Alphabet[v%58])
		v /= 58
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Bytes 8 字节大端序
func (id ID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id.Uint64())
	return b
}

// Base64 8 字节大端序的 URL 安全 base64（无填充）
func (id ID) Base64() string {
	return base64.RawURLEncoding.EncodeToString(id.Bytes())
}

// ParseString 解析十进制字符串
func ParseString(s string) (ID, error) {
	return parseUint(s, 10)
}

// ParseBase2 解析二进制字符串
func ParseBase2(s string) (ID, error) {
	return parseUint(s, 2)
}

// ParseBase36 解析 36 进制字符串
func ParseBase36(s string) (ID, error) {
	return parseUint(s, 36)
}

// ParseBase58 解析 Base58 生成的字符串
func ParseBase58(s string) (ID, error) {
	if s == "" {
		return ID{}, ErrInvalidBase58
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		d := base58Index[s[i]]
		if d == 0xFF {
			return ID{}, errors.WithMessagef(ErrInvalidBase58, "unexpected character %q", s[i])
		}
		if v > (^uint64(0)-uint64(d))/58 {
			return ID{}, errors.WithMessage(ErrInvalidBase58, "value overflows uint64")
		}
		v = v*58 + uint64(d)
	}
	return ParseID(v)
}

// ParseBytes 解析 8 字节大端序
func ParseBytes(b []byte) (ID, error) {
	if len(b) != 8 {
		return ID{}, errors.Errorf("snowflake: expected 8 bytes, got %d", len(b))
	}
	return ParseID(binary.BigEndian.Uint64(b))
}

// ParseBase64 解析 Base64 生成的字符串
func ParseBase64(s string) (ID, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ID{}, errors.Wrap(err, "snowflake: invalid base64")
	}
	return ParseBytes(b)
}

func parseUint(s string, base int) (ID, error) {
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return ID{}, errors.Wrapf(err, "snowflake: invalid base%d id", base)
	}
	return ParseID(v)
}

// MarshalJSON 编码为十进制字符串，避免 JavaScript 丢失精度
func (id ID) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 22)
	b = append(b, '"')
	b = strconv.AppendUint(b, id.Uint64(), 10)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON 同时接受字符串和数字，null 时保持不变
func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return errors.Wrapf(err, "snowflake: invalid json id %s", s)
		}
		s = unquoted
	}
	parsed, err := ParseString(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EncodeMsgpack 编码为 uint64
func (id ID) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeUint64(id.Uint64())
}

func (id *ID) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeUint64()
	if err != nil {
		return errors.Wrap(err, "snowflake: decode msgpack")
	}
	parsed, err := ParseID(v)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBSONValue 编码为 int64
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.Int64, bsoncore.AppendInt64(nil, id.Int64()), nil
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	v, ok := bsoncore.Value{Type: t, Data: data}.Int64OK()
	if !ok {
		return errors.Errorf("snowflake: cannot decode bson %s into ID", t)
	}
	if v < 0 {
		return &RangeError{Field: FieldTimestamp, Value: v >> TimestampShift, Max: MaxTimestamp}
	}
	parsed, err := ParseID(uint64(v))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

var (
	_ msgpack.CustomEncoder = ID{}
	_ msgpack.CustomDecoder = (*ID)(nil)
)
