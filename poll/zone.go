package poll

import (
	"net"
	"strconv"
	"sync"
)

// zoneNames caches scope id to interface name lookups. Resolving a name
// walks every interface, which is too slow for each link-local datagram.
var zoneNames sync.Map

// zoneName maps an IPv6 scope id to an interface name, falling back to the
// numeric form when the interface is unknown. Unknown ids are not cached
// since the interface may appear later.
func zoneName(index uint32) string {
	if name, ok := zoneNames.Load(index); ok {
		return name.(string)
	}
	ifi, err := net.InterfaceByIndex(int(index))
	if err != nil {
		return strconv.FormatUint(uint64(index), 10)
	}
	zoneNames.Store(index, ifi.Name)
	return ifi.Name
}
