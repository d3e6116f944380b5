package snowflake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
)

func mustID(t *testing.T, timestamp, instance, sequence int64) ID {
	t.Helper()
	id, err := NewID(timestamp, instance, sequence)
	require.NoError(t, err)
	return id
}

func TestStringEncodings(t *testing.T) {
	ids := []ID{
		mustID(t, 0, 0, 0),
		mustID(t, 0, 0, 57),
		mustID(t, 5, 3, 7),
		mustID(t, 123456789, 512, 2048),
		mustID(t, MaxTimestamp, MaxInstance, MaxSequence),
	}

	tests := []struct {
		name   string
		encode func(ID) string
		parse  func(string) (ID, error)
	}{
		{"decimal", ID.String, ParseString},
		{"base2", ID.Base2, ParseBase2},
		{"base36", ID.Base36, ParseBase36},
		{"base58", ID.Base58, ParseBase58},
		{"base64", ID.Base64, ParseBase64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range ids {
				parsed, err := tt.parse(tt.encode(id))
				require.NoError(t, err)
				assert.Equal(t, id, parsed)
			}
		})
	}
}

func TestKnownEncodings(t *testing.T) {
	id := mustID(t, 5, 3, 7)

	assert.Equal(t, "20983815", id.String())
	assert.Equal(t, "1010000000011000000000111", id.Base2())
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 64, 48, 7}, id.Bytes())
	assert.Equal(t, "1", mustID(t, 0, 0, 0).Base58())
	assert.Equal(t, "Z", mustID(t, 0, 0, 57).Base58())
	assert.Equal(t, "21", mustID(t, 0, 0, 58).Base58())
}

func TestParseInvalid(t *testing.T) {
	_, err := ParseBase58("")
	assert.ErrorIs(t, err, ErrInvalidBase58)

	_, err = ParseBase58("0OIl")
	assert.ErrorIs(t, err, ErrInvalidBase58)

	_, err = ParseBase58("zzzzzzzzzzzzzzzz")
	assert.ErrorIs(t, err, ErrInvalidBase58)

	_, err = ParseString("abc")
	assert.Error(t, err)

	_, err = ParseString("-1")
	assert.Error(t, err)

	_, err = ParseBase64("!!")
	assert.Error(t, err)

	_, err = ParseBytes([]byte{1, 2, 3})
	assert.Error(t, err)

	// 第 63 位被使用
	_, err = ParseString("9223372036854775808")
	var rangeErr *RangeError
	assert.ErrorAs(t, err, &rangeErr)
}

type record struct {
	ID   ID     `json:"id" msgpack:"id" bson:"_id"`
	Name string `json:"name" msgpack:"name" bson:"name"`
}

func TestJSON(t *testing.T) {
	r := record{ID: mustID(t, 5, 3, 7), Name: "order"}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"20983815","name":"order"}`, string(b))

	var decoded record
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, r, decoded)

	require.NoError(t, json.Unmarshal([]byte(`{"id":20983815,"name":"order"}`), &decoded))
	assert.Equal(t, r, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"id":"x"}`), &decoded))

	t.Run("null 保持原值", func(t *testing.T) {
		decoded := record{ID: mustID(t, 5, 3, 7)}
		require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"order"}`), &decoded))
		assert.Equal(t, r, decoded)
	})

	t.Run("引号不完整", func(t *testing.T) {
		var id ID
		assert.Error(t, id.UnmarshalJSON([]byte(`"20983815`)))
		assert.Error(t, id.UnmarshalJSON([]byte(`20983815"`)))
		assert.Error(t, id.UnmarshalJSON([]byte(`"`)))
		assert.Equal(t, ID{}, id)
	})
}

func TestZeroIDRoundTrip(t *testing.T) {
	r := record{Name: "empty"}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var fromJSON record
	require.NoError(t, json.Unmarshal(b, &fromJSON))
	assert.Equal(t, r, fromJSON)
	assert.Equal(t, DefaultEpoch, fromJSON.ID.Epoch())

	b, err = msgpack.Marshal(r)
	require.NoError(t, err)
	var fromMsgpack record
	require.NoError(t, msgpack.Unmarshal(b, &fromMsgpack))
	assert.Equal(t, r, fromMsgpack)

	b, err = bson.Marshal(r)
	require.NoError(t, err)
	var fromBSON record
	require.NoError(t, bson.Unmarshal(b, &fromBSON))
	assert.Equal(t, r, fromBSON)
}

func TestMsgpack(t *testing.T) {
	r := record{ID: mustID(t, MaxTimestamp, MaxInstance, MaxSequence), Name: "order"}

	b, err := msgpack.Marshal(r)
	require.NoError(t, err)

	var decoded record
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	assert.Equal(t, r, decoded)
}

func TestBSON(t *testing.T) {
	r := record{ID: mustID(t, 123456789, 512, 2048), Name: "order"}

	b, err := bson.Marshal(r)
	require.NoError(t, err)

	raw := bson.Raw(b)
	assert.Equal(t, r.ID.Int64(), raw.Lookup("_id").Int64())

	var decoded record
	require.NoError(t, bson.Unmarshal(b, &decoded))
	assert.Equal(t, r, decoded)

	bad, err := bson.Marshal(bson.M{"_id": "x"})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(bad, &decoded))
}
