package geyser

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	gproto "raydiumsentry/internal/geyser/proto"
)

// subscribeCodecName is registered as a gRPC call content-subtype so the
// subscribe stream's SendMsg/RecvMsg round-trip through gproto.Marshal and
// gproto.Unmarshal instead of requiring a full proto.Message implementation.
const subscribeCodecName = "geyser-subscribe"

func init() {
	encoding.RegisterCodec(subscribeCodec{})
}

type subscribeCodec struct{}

func (subscribeCodec) Name() string { return subscribeCodecName }

func (subscribeCodec) Marshal(v any) ([]byte, error) {
	req, ok := v.(*gproto.SubscribeRequest)
	if !ok {
		return nil, fmt.Errorf("geyser: codec cannot marshal %T", v)
	}
	return gproto.Marshal(req)
}

func (subscribeCodec) Unmarshal(data []byte, v any) error {
	upd, ok := v.(*gproto.SubscribeUpdate)
	if !ok {
		return fmt.Errorf("geyser: codec cannot unmarshal into %T", v)
	}
	decoded, err := gproto.Unmarshal(data)
	if err != nil {
		return err
	}
	*upd = *decoded
	return nil
}
