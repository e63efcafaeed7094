package reference

import (
	"fmt"

	"github.com/google/gopacket/layers"
)

// ProtocolNumber is an IANA protocol number as carried by the IPv4 Protocol
// and IPv6 Next Header fields.
type ProtocolNumber struct {
	Number uint8  `json:"number"`
	Name   string `json:"name"`
}

func (p ProtocolNumber) String() string {
	return fmt.Sprintf("%d (%s)", p.Number, p.Name)
}

var commonProtocols = []layers.IPProtocol{
	layers.IPProtocolICMPv4,
	layers.IPProtocolIGMP,
	layers.IPProtocolTCP,
	layers.IPProtocolUDP,
	layers.IPProtocolIPv6,
	layers.IPProtocolGRE,
	layers.IPProtocolESP,
	layers.IPProtocolAH,
	layers.IPProtocolICMPv6,
	layers.IPProtocolSCTP,
}

// CommonProtocols lists the protocol numbers learners meet most often, in
// ascending numeric order.
func CommonProtocols() []ProtocolNumber {
	out := make([]ProtocolNumber, 0, len(commonProtocols))
	for _, p := range commonProtocols {
		out = append(out, ProtocolNumber{Number: uint8(p), Name: p.String()})
	}
	return out
}

// EtherType is the layer 2 type code that announces an IP header.
type EtherType struct {
	Value uint16 `json:"value"`
	Name  string `json:"name"`
}

func (e EtherType) String() string {
	return fmt.Sprintf("0x%04x (%s)", e.Value, e.Name)
}

// EtherTypeFor returns the Ethernet type code for the given IP version.
func EtherTypeFor(ipVersion int) (EtherType, bool) {
	var t layers.EthernetType
	switch ipVersion {
	case 4:
		t = layers.EthernetTypeIPv4
	case 6:
		t = layers.EthernetTypeIPv6
	default:
		return EtherType{}, false
	}
	return EtherType{Value: uint16(t), Name: t.String()}, true
}
