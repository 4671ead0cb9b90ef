package cyphalcan

import "github.com/sirupsen/logrus"

// SessionStoreKind selects which SessionStore implementation a subscription
// uses.
type SessionStoreKind int

const (
	// SessionStoreLinear is fixed-capacity, O(C), and fails with
	// ErrOutOfMemory once full.
	SessionStoreLinear SessionStoreKind = iota
	// SessionStoreArray is direct-indexed, O(1), and never fails to insert.
	SessionStoreArray
	// SessionStoreDynamic is map-backed, O(log n) nominally, with no fixed
	// capacity.
	SessionStoreDynamic
)

// Config is the static configuration surface of a Transmitter/Receiver
// pair: bus parameters, local identity, and capacity limits. There is no
// remote or persisted configuration; a fresh Config is built by the caller
// at startup.
type Config struct {
	Mtu         Mtu
	LocalNodeID *NodeID // nil means anonymous: no local node id is assigned

	MaxPublishers  int
	MaxRequesters  int

	OutgoingQueueCapacity int

	SessionStoreKind    SessionStoreKind
	SessionStoreCapacity int // used by SessionStoreLinear only

	Logger *logrus.Logger
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// NewSessionStore builds a SessionStore of the configured kind for one
// subscription.
func NewSessionStore(cfg Config) SessionStore {
	switch cfg.SessionStoreKind {
	case SessionStoreArray:
		maxNode := NodeID(127)
		return NewArraySessionStore(maxNode)
	case SessionStoreDynamic:
		return NewDynamicSessionStore(cfg.logger())
	default:
		return NewLinearSessionStore(cfg.SessionStoreCapacity)
	}
}

// canFDFrameSizes are the allowed on-wire lengths (data bytes + tail byte)
// for a CAN-FD frame shorter than the configured MTU, per §4.1/§4.3/§6.3.
var canFDFrameSizes = [...]int{12, 16, 20, 24, 32, 48, 64}

// frameLayout computes how many frames a payload of payloadLen bytes needs
// at the given MTU, and the total logical byte count (payload + transfer
// CRC + any CAN-FD zero padding) once the trailing partial frame is rounded
// up to an allowed size. A single-frame transfer (payloadLen fits in one
// frame) carries no transfer CRC, matching §3's invariant.
func frameLayout(mtu Mtu, payloadLen int) (frameCount int, totalWithPadding int) {
	usable := int(mtu) - 1
	if payloadLen <= usable {
		return 1, payloadLen
	}
	total := payloadLen + 2 // transfer CRC
	full := total / usable
	remainder := total % usable
	if remainder == 0 {
		return full, total
	}
	lastFrameDataLen := remainder
	if mtu > MtuClassicCAN {
		for _, size := range canFDFrameSizes {
			if size > int(mtu) {
				break
			}
			if size-1 >= remainder {
				lastFrameDataLen = size - 1
				break
			}
		}
	}
	padding := lastFrameDataLen - remainder
	return full + 1, total + padding
}
