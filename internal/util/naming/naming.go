package naming

import "fmt"

// Naming functions for cluster resources. Every resource a cluster owns
// carries a "<cluster>-" prefixed name so it can be found again without any
// persisted identifier.

func Network(cluster string) string {
	return fmt.Sprintf("%s-vpc", cluster)
}

func Subnet(cluster string) string {
	return fmt.Sprintf("%s-subnet", cluster)
}

func SecurityBoundary(cluster string) string {
	return fmt.Sprintf("%s-sg", cluster)
}

func Gateway(cluster string) string {
	return fmt.Sprintf("%s-igw", cluster)
}

func RouteTable(cluster string) string {
	return fmt.Sprintf("%s-rt", cluster)
}

func KeyPair(cluster string) string {
	return fmt.Sprintf("%s-key", cluster)
}

// Instance is the provider-side name for backends that require unique
// instance names per project or zone; the logical name lives in the tag pair.
func Instance(cluster, name string) string {
	return fmt.Sprintf("%s-%s", cluster, name)
}

// Flat variants for providers whose network vocabulary differs from the VPC
// family.

func FlatNetwork(cluster string) string {
	return fmt.Sprintf("%s-net", cluster)
}

func Firewall(cluster string) string {
	return fmt.Sprintf("%s-fw", cluster)
}
