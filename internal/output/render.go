package output

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

// Instance prints one instance as key=value lines (up, reboot, destroy).
func Instance(inst *provider.InstanceView) {
	if inst == nil {
		return
	}
	KV("name", inst.Name)
	KV("id", inst.ID)
	KV("cluster", inst.Cluster)
	KV("state", string(inst.State))
	KV("public_ip", inst.PublicIP)
	KV("private_ip", inst.PrivateIP)
	KV("size", inst.Size)
	KV("zone", inst.Zone)
}

// Health prints a health report as key=value lines, diagnosis last.
func Health(r *provider.HealthReport) {
	KV("name", r.Name)
	KV("id", r.ID)
	KV("public_ip", r.PublicIP)
	KV("run_state", string(r.RunState))
	KV("status_checks", string(r.Checks))
	KV("ssh_ingress", string(r.Ingress))
	KV("reachability", string(r.Reachability))
	KV("key_probe", string(r.KeyProbe))
	KV("key_probe_note", r.KeyProbeNote)
	KV("diagnosis", string(r.Diagnosis))
}

// Status renders the cluster's network view and instance list.
func Status(st *provider.ClusterStatus, mode Mode) error {
	switch mode {
	case ModeJSON:
		return EmitJSON(st)
	case ModeYAML:
		return EmitYAML(st)
	default:
		return statusTable(st)
	}
}

func statusTable(st *provider.ClusterStatus) error {
	KV("cluster", st.Cluster)
	KV("provider", st.Provider)
	KV("network_id", st.Network.NetworkID)
	KV("subnet_id", st.Network.SubnetID)
	KV("security_boundary_id", st.Network.SecurityBoundaryID)
	KV("gateway_id", st.Network.GatewayID)
	KV("route_table_id", st.Network.RouteTableID)

	if len(st.Instances) == 0 {
		pterm.Println("No instances.")
		return nil
	}
	rows := [][]string{{"Name", "State", "Checks", "Public IP", "Size", "Zone"}}
	for _, inst := range st.Instances {
		rows = append(rows, []string{
			inst.Name,
			string(inst.State),
			string(inst.Checks),
			inst.PublicIP,
			inst.Size,
			inst.Zone,
		})
	}
	return renderTable(rows)
}

// Regions renders a provider's region list.
func Regions(regions []provider.Region, mode Mode) error {
	switch mode {
	case ModeJSON:
		return EmitJSON(regions)
	case ModeYAML:
		return EmitYAML(regions)
	default:
		rows := [][]string{{"Region", "Description"}}
		for _, r := range regions {
			rows = append(rows, []string{r.Name, r.Description})
		}
		return renderTable(rows)
	}
}

// Zones renders a region's zone list.
func Zones(zones []provider.Zone, mode Mode) error {
	switch mode {
	case ModeJSON:
		return EmitJSON(zones)
	case ModeYAML:
		return EmitYAML(zones)
	default:
		rows := [][]string{{"Zone", "Region", "Status"}}
		for _, z := range zones {
			rows = append(rows, []string{z.Name, z.Region, z.Status})
		}
		return renderTable(rows)
	}
}

// Teardown prints the per-layer outcome of a network teardown.
func Teardown(td *network.Teardown) {
	for _, step := range td.Steps {
		switch step.Outcome {
		case network.OutcomeDeleted:
			fmt.Printf("%s: deleted (%s)\n", step.Kind, step.ID)
		case network.OutcomeAbsent:
			fmt.Printf("%s: already absent\n", step.Kind)
		case network.OutcomeFailed:
			fmt.Printf("%s: failed: %v\n", step.Kind, step.Err)
		}
	}
}
