package mib

import (
	"fmt"

	"github.com/danmuck/snmplite/internal/value"
)

// DefaultEntries returns the fixed seed set the agent serves at startup:
// system, interface, IP, TCP, UDP and SNMP groups for a small edge router,
// plus a private subtree of long strings used to exercise large bulk
// responses. sysContact, sysName, sysLocation and the interface alias rows
// are read-write; everything else is read-only.
func DefaultEntries() map[string]Entry {
	rw := func(v value.Value) Entry { return Entry{Value: v, Access: AccessReadWrite} }
	ro := func(v value.Value) Entry { return Entry{Value: v, Access: AccessReadOnly} }

	entries := map[string]Entry{
		// System group (1.3.6.1.2.1.1)
		"1.3.6.1.2.1.1.1.0": ro(value.String("Router Model X2000 - High Performance Edge Router")),
		"1.3.6.1.2.1.1.2.0": ro(value.String("1.3.6.1.4.1.9.1.1234")), // sysObjectID
		UptimeOID:           ro(value.TimeTicks(0)),                   // sysUpTime, derived on read
		"1.3.6.1.2.1.1.4.0": rw(value.String("admin@example.com")),    // sysContact
		"1.3.6.1.2.1.1.5.0": rw(value.String("router-main")),          // sysName
		"1.3.6.1.2.1.1.6.0": rw(value.String("Server Room, Building A, Floor 2")), // sysLocation
		"1.3.6.1.2.1.1.7.0": ro(value.Integer(72)),                    // sysServices

		// Interfaces group (1.3.6.1.2.1.2)
		"1.3.6.1.2.1.2.1.0": ro(value.Integer(3)), // ifNumber

		// IP group (1.3.6.1.2.1.4)
		"1.3.6.1.2.1.4.1.0":  ro(value.Integer(1)),
		"1.3.6.1.2.1.4.2.0":  ro(value.Integer(64)),
		"1.3.6.1.2.1.4.3.0":  ro(value.Counter(98765432)),
		"1.3.6.1.2.1.4.4.0":  ro(value.Counter(1234)),
		"1.3.6.1.2.1.4.5.0":  ro(value.Counter(456)),
		"1.3.6.1.2.1.4.6.0":  ro(value.Counter(87654321)),
		"1.3.6.1.2.1.4.9.0":  ro(value.Counter(76543210)),
		"1.3.6.1.2.1.4.10.0": ro(value.Counter(65432109)),

		// TCP group (1.3.6.1.2.1.6)
		"1.3.6.1.2.1.6.1.0":  ro(value.Integer(2)),
		"1.3.6.1.2.1.6.2.0":  ro(value.Integer(200)),
		"1.3.6.1.2.1.6.3.0":  ro(value.Integer(120000)),
		"1.3.6.1.2.1.6.4.0":  ro(value.Integer(-1)),
		"1.3.6.1.2.1.6.5.0":  ro(value.Counter(234567)),
		"1.3.6.1.2.1.6.6.0":  ro(value.Counter(345678)),
		"1.3.6.1.2.1.6.7.0":  ro(value.Counter(123)),
		"1.3.6.1.2.1.6.8.0":  ro(value.Counter(234)),
		"1.3.6.1.2.1.6.9.0":  ro(value.Integer(42)),
		"1.3.6.1.2.1.6.10.0": ro(value.Counter(12345678)),
		"1.3.6.1.2.1.6.11.0": ro(value.Counter(11234567)),
		"1.3.6.1.2.1.6.12.0": ro(value.Counter(456)),

		// UDP group (1.3.6.1.2.1.7)
		"1.3.6.1.2.1.7.1.0": ro(value.Counter(3456789)),
		"1.3.6.1.2.1.7.2.0": ro(value.Counter(789)),
		"1.3.6.1.2.1.7.3.0": ro(value.Counter(123)),
		"1.3.6.1.2.1.7.4.0": ro(value.Counter(2345678)),

		// SNMP group (1.3.6.1.2.1.11)
		"1.3.6.1.2.1.11.1.0": ro(value.Counter(54321)),
		"1.3.6.1.2.1.11.2.0": ro(value.Counter(43210)),
		"1.3.6.1.2.1.11.3.0": ro(value.Counter(5)),
		"1.3.6.1.2.1.11.4.0": ro(value.Counter(2)),
		"1.3.6.1.2.1.11.5.0": ro(value.Counter(1)),
		"1.3.6.1.2.1.11.6.0": ro(value.Counter(0)),
	}

	type ifRow struct {
		index    int32
		descr    string
		ifType   int32
		mtu      int32
		speed    uint32
		physAddr string
		inOctets, inUcast, inNUcast, inDiscards, inErrors, inUnknown uint32
		outOctets, outUcast                                          uint32
		alias                                                        string
	}
	rows := []ifRow{
		{1, "eth0", 6, 1500, 1000000000, "00:1B:44:11:3A:B7",
			3456789012, 23456789, 123456, 234, 12, 0, 2345678901, 12345678,
			"WAN Interface - ISP Connection"},
		{2, "eth1", 6, 1500, 1000000000, "00:1B:44:11:3A:B8",
			1876543210, 8765432, 54321, 123, 5, 0, 987654321, 4567890,
			"LAN Interface - Internal Network"},
		{3, "lo", 24, 65536, 0, "",
			567890, 4567, 0, 0, 0, 0, 567890, 4567,
			"Loopback Interface"},
	}
	for _, r := range rows {
		col := func(c int) string { return fmt.Sprintf("1.3.6.1.2.1.2.2.1.%d.%d", c, r.index) }
		entries[col(1)] = ro(value.Integer(r.index))
		entries[col(2)] = ro(value.String(r.descr))
		entries[col(3)] = ro(value.Integer(r.ifType))
		entries[col(4)] = ro(value.Integer(r.mtu))
		entries[col(5)] = ro(value.Counter(r.speed))
		entries[col(6)] = ro(value.String(r.physAddr))
		entries[col(7)] = ro(value.Integer(1))  // ifAdminStatus up
		entries[col(8)] = ro(value.Integer(1))  // ifOperStatus up
		entries[col(9)] = ro(value.TimeTicks(0)) // ifLastChange
		entries[col(10)] = ro(value.Counter(r.inOctets))
		entries[col(11)] = ro(value.Counter(r.inUcast))
		entries[col(12)] = ro(value.Counter(r.inNUcast))
		entries[col(13)] = ro(value.Counter(r.inDiscards))
		entries[col(14)] = ro(value.Counter(r.inErrors))
		entries[col(15)] = ro(value.Counter(r.inUnknown))
		entries[col(16)] = ro(value.Counter(r.outOctets))
		entries[col(17)] = ro(value.Counter(r.outUcast))
		entries[col(18)] = rw(value.String(r.alias)) // ifAlias
	}

	// Private subtree of long strings so bulk responses span several
	// transport reads.
	for i := 1; i <= 50; i++ {
		key := fmt.Sprintf("1.3.6.1.4.1.99.1.%d.0", i)
		entries[key] = ro(value.String(fmt.Sprintf(
			"Test OID %d - This is a longer string to help test buffering of large SNMP messages", i)))
	}

	return entries
}

// DefaultStore builds a store over DefaultEntries.
func DefaultStore() (*Store, error) {
	return NewStore(DefaultEntries())
}
