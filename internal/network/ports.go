package network

// Address layout every cluster network uses, whatever the provider calls
// the enclosing resource.
const (
	CIDRNetwork = "10.0.0.0/16"
	CIDRSubnet  = "10.0.1.0/24"
)

// IngressPorts are the inbound TCP ports every cluster template opens to
// the world: SSH, HTTP(S), and the 909x range the managed workloads listen
// on.
var IngressPorts = []int{22, 80, 443, 9090, 9091, 9092}
