package cmd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hatlonely/uidx/codec"
	"github.com/hatlonely/uidx/ref"
	"github.com/hatlonely/uidx/snowflake"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const codecNamespace = "github.com/hatlonely/uidx/codec"

// parse --output 到序列化器类型的映射，proto 只编码 ID 本身
var outputs = map[string]string{
	"json":    "JSONSerializer",
	"msgpack": "MsgPackSerializer",
	"bson":    "BSONSerializer",
	"proto":   "IDProtoSerializer",
}

// parsed parse 命令的输出
type parsed struct {
	ID           string  `json:"id" msgpack:"id" bson:"id"`
	Base58       string  `json:"base58" msgpack:"base58" bson:"base58"`
	Timestamp    int64   `json:"timestamp" msgpack:"timestamp" bson:"timestamp"`
	Instance     int64   `json:"instance" msgpack:"instance" bson:"instance"`
	Sequence     int64   `json:"sequence" msgpack:"sequence" bson:"sequence"`
	Milliseconds int64   `json:"milliseconds" msgpack:"milliseconds" bson:"milliseconds"`
	Seconds      float64 `json:"seconds" msgpack:"seconds" bson:"seconds"`
	Time         string  `json:"time" msgpack:"time" bson:"time"`
	Epoch        string  `json:"epoch" msgpack:"epoch" bson:"epoch"`
}

func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <id>",
		Short: "Print the fields of a snowflake id",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().StringP("format", "f", "decimal", "input format: decimal, base2, base36, base58, base64")
	cmd.Flags().String("epoch", "", "epoch as RFC3339 or unix milliseconds, defaults to 2023-01-01T00:00:00Z")
	cmd.Flags().StringP("output", "o", "json", "output encoding: json, or hex of msgpack, bson, proto")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	epochFlag, _ := cmd.Flags().GetString("epoch")
	output, _ := cmd.Flags().GetString("output")

	type_, ok := outputs[output]
	if !ok {
		return errors.Errorf("unknown output %q", output)
	}

	parse, err := parser(format)
	if err != nil {
		return err
	}
	epoch, err := parseEpoch(epochFlag)
	if err != nil {
		return err
	}

	id, err := parse(args[0])
	if err != nil {
		return err
	}
	if id, err = epoch.ParseID(id.Uint64()); err != nil {
		return err
	}

	buf, err := serialize(type_, id)
	if err != nil {
		return err
	}
	if output == "json" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf))
	} else {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
	}
	return err
}

func serialize(type_ string, id snowflake.ID) ([]byte, error) {
	options := &ref.TypeOptions{Namespace: codecNamespace, Type: type_}
	if type_ == "IDProtoSerializer" {
		s, err := codec.NewByteSerializerWithOptions[snowflake.ID](options)
		if err != nil {
			return nil, err
		}
		return s.Serialize(id)
	}

	s, err := codec.NewByteSerializerWithOptions[parsed](options)
	if err != nil {
		return nil, err
	}
	return s.Serialize(parsed{
		ID:           id.String(),
		Base58:       id.Base58(),
		Timestamp:    id.Timestamp(),
		Instance:     id.Instance(),
		Sequence:     id.Sequence(),
		Milliseconds: id.Milliseconds(),
		Seconds:      id.Seconds(),
		Time:         id.Time().Format(time.RFC3339Nano),
		Epoch:        id.Epoch().String(),
	})
}
