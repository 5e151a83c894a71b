package adv

import "context"

// MaxDataLen is the advertising PDU payload limit in bytes.
const MaxDataLen = 31

// Advertiser is the operation set a transport must support to control BLE
// advertising. Each call blocks until the controller responds or the
// transport reports failure; callers serialize command/response pairs per
// transport themselves. Implementations do not truncate advertising data:
// keeping it within MaxDataLen is the caller's responsibility.
type Advertiser interface {
	SetAdvertisingEnable(ctx context.Context, enable bool) error
	SetAdvertisingParameters(ctx context.Context, p Parameters) error
	SetAdvertisingData(ctx context.Context, data []byte) error
}
