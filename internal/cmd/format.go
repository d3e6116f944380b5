package cmd

import (
	"strconv"
	"time"

	"github.com/hatlonely/uidx/snowflake"
	"github.com/pkg/errors"
)

// 支持的 ID 文本格式
var formats = map[string]struct {
	encode func(snowflake.ID) string
	parse  func(string) (snowflake.ID, error)
}{
	"decimal": {snowflake.ID.String, snowflake.ParseString},
	"base2":   {snowflake.ID.Base2, snowflake.ParseBase2},
	"base36":  {snowflake.ID.Base36, snowflake.ParseBase36},
	"base58":  {snowflake.ID.Base58, snowflake.ParseBase58},
	"base64":  {snowflake.ID.Base64, snowflake.ParseBase64},
}

func encoder(format string) (func(snowflake.ID) string, error) {
	f, ok := formats[format]
	if !ok {
		return nil, errors.Errorf("unknown format %q", format)
	}
	return f.encode, nil
}

func parser(format string) (func(string) (snowflake.ID, error), error) {
	f, ok := formats[format]
	if !ok {
		return nil, errors.Errorf("unknown format %q", format)
	}
	return f.parse, nil
}

// parseEpoch 支持 RFC3339 时间和 Unix 毫秒，空字符串为默认纪元
func parseEpoch(s string) (snowflake.Epoch, error) {
	if s == "" {
		return snowflake.DefaultEpoch, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return snowflake.NewEpoch(t), nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid epoch %q, want RFC3339 or unix milliseconds", s)
	}
	return snowflake.Epoch(ms), nil
}
