package ec2

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2instanceconnect"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/provider"
)

func testConfig() *config.Effective {
	return &config.Effective{
		Provider:    config.ProviderEC2,
		ClusterName: "dev",
		Region:      "us-east-2",
		Size:        "t3.micro",
		Image:       "ami-0123456789abcdef0",
		KeyPairName: "dev-key",
		OSUser:      "ubuntu",
	}
}

func testAdapter(clients *Clients) *Adapter {
	a := New(testConfig(), clients)
	a.waitTimeout = time.Second
	return a
}

func writeTestKey(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vmcli.pub")
	require.NoError(t, os.WriteFile(path, ssh.MarshalAuthorizedKey(sshPub), 0o600))
	return path
}

func testInstance(id, name string, state types.InstanceStateName) types.Instance {
	return types.Instance{
		InstanceId:       aws.String(id),
		State:            &types.InstanceState{Name: state},
		InstanceType:     types.InstanceTypeT3Micro,
		PublicIpAddress:  aws.String("203.0.113.10"),
		PrivateIpAddress: aws.String("10.0.1.20"),
		KeyName:          aws.String("dev-key"),
		Placement:        &types.Placement{AvailabilityZone: aws.String("us-east-2a")},
		LaunchTime:       aws.Time(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)),
		SecurityGroups:   []types.GroupIdentifier{{GroupId: aws.String("sg-1")}},
		Tags: []types.Tag{
			{Key: aws.String("Cluster"), Value: aws.String("dev")},
			{Key: aws.String("ManagedBy"), Value: aws.String("vmcli")},
			{Key: aws.String("Name"), Value: aws.String(name)},
		},
	}
}

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "nope"}
}

func reservationOf(instances ...types.Instance) *awsec2.DescribeInstancesOutput {
	return &awsec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{{Instances: instances}},
	}
}

// instancesAPI builds the common describe split: tag-filtered listings on one
// side, id reads (waiters included) on the other.
func instancesAPI(byFilter, byID *awsec2.DescribeInstancesOutput) *MockInstanceAPI {
	return &MockInstanceAPI{
		DescribeInstancesFunc: func(_ context.Context, params *awsec2.DescribeInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			if len(params.InstanceIds) > 0 {
				return byID, nil
			}
			return byFilter, nil
		},
	}
}

// foundNetwork answers every tagged Find with an existing resource, so up
// flows reuse the stack instead of building it.
func foundNetwork() *MockNetworkAPI {
	return &MockNetworkAPI{
		DescribeVpcsFunc: func(_ context.Context, _ *awsec2.DescribeVpcsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeVpcsOutput, error) {
			return &awsec2.DescribeVpcsOutput{Vpcs: []types.Vpc{{VpcId: aws.String("vpc-1")}}}, nil
		},
		DescribeSubnetsFunc: func(_ context.Context, _ *awsec2.DescribeSubnetsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSubnetsOutput, error) {
			return &awsec2.DescribeSubnetsOutput{Subnets: []types.Subnet{{SubnetId: aws.String("subnet-1")}}}, nil
		},
		DescribeSecurityGroupsFunc: func(_ context.Context, _ *awsec2.DescribeSecurityGroupsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error) {
			return &awsec2.DescribeSecurityGroupsOutput{SecurityGroups: []types.SecurityGroup{{GroupId: aws.String("sg-1")}}}, nil
		},
		DescribeInternetGatewaysFunc: func(_ context.Context, _ *awsec2.DescribeInternetGatewaysInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInternetGatewaysOutput, error) {
			return &awsec2.DescribeInternetGatewaysOutput{InternetGateways: []types.InternetGateway{{InternetGatewayId: aws.String("igw-1")}}}, nil
		},
		DescribeRouteTablesFunc: func(_ context.Context, _ *awsec2.DescribeRouteTablesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeRouteTablesOutput, error) {
			return &awsec2.DescribeRouteTablesOutput{RouteTables: []types.RouteTable{{RouteTableId: aws.String("rtb-1")}}}, nil
		},
	}
}

func foundKeyPair() *MockKeyAPI {
	return &MockKeyAPI{
		DescribeKeyPairsFunc: func(_ context.Context, _ *awsec2.DescribeKeyPairsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeKeyPairsOutput, error) {
			return &awsec2.DescribeKeyPairsOutput{KeyPairs: []types.KeyPairInfo{{KeyName: aws.String("dev-key")}}}, nil
		},
	}
}

func TestUpRefusesNameCollision(t *testing.T) {
	t.Parallel()

	instances := &MockInstanceAPI{
		DescribeInstancesFunc: func(_ context.Context, params *awsec2.DescribeInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			byName := map[string][]string{}
			for _, f := range params.Filters {
				byName[aws.ToString(f.Name)] = f.Values
			}
			assert.Equal(t, []string{"dev"}, byName["tag:Cluster"])
			assert.Equal(t, []string{"web"}, byName["tag:Name"])
			assert.ElementsMatch(t, nonTerminatedStates, byName["instance-state-name"])
			return reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)), nil
		},
	}
	a := testAdapter(&Clients{Instances: instances})

	_, err := a.Up(context.Background(), "web")
	require.ErrorIs(t, err, provider.ErrNameCollision)
}

func TestUpLaunchesIntoExistingNetwork(t *testing.T) {
	t.Parallel()

	launched := false
	instances := instancesAPI(
		&awsec2.DescribeInstancesOutput{},
		reservationOf(testInstance("i-new", "web", types.InstanceStateNameRunning)),
	)
	instances.RunInstancesFunc = func(_ context.Context, params *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
		launched = true
		assert.Equal(t, "ami-0123456789abcdef0", aws.ToString(params.ImageId))
		assert.Equal(t, types.InstanceTypeT3Micro, params.InstanceType)
		assert.Equal(t, "dev-key", aws.ToString(params.KeyName))
		assert.Equal(t, "subnet-1", aws.ToString(params.SubnetId))
		assert.Equal(t, []string{"sg-1"}, params.SecurityGroupIds)
		assert.Equal(t, int32(1), aws.ToInt32(params.MinCount))
		assert.Equal(t, int32(1), aws.ToInt32(params.MaxCount))

		require.Len(t, params.TagSpecifications, 1)
		spec := params.TagSpecifications[0]
		assert.Equal(t, types.ResourceTypeInstance, spec.ResourceType)
		got := map[string]string{}
		for _, tag := range spec.Tags {
			got[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		assert.Equal(t, map[string]string{"Cluster": "dev", "ManagedBy": "vmcli", "Name": "web"}, got)

		inst := testInstance("i-new", "web", types.InstanceStateNamePending)
		inst.Tags = nil
		return &awsec2.RunInstancesOutput{Instances: []types.Instance{inst}}, nil
	}
	a := testAdapter(&Clients{
		Network:   foundNetwork(),
		Instances: instances,
		Keys:      foundKeyPair(),
	})

	view, err := a.Up(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, launched)
	require.NotNil(t, view)
	assert.Equal(t, "i-new", view.ID)
	assert.Equal(t, "web", view.Name)
	assert.Equal(t, "dev", view.Cluster)
	assert.Equal(t, provider.RunStateRunning, view.State)
	assert.Equal(t, "203.0.113.10", view.PublicIP)
	assert.Equal(t, "10.0.1.20", view.PrivateIP)
	assert.Equal(t, "t3.micro", view.Size)
	assert.Equal(t, "us-east-2a", view.Zone)
	assert.Equal(t, "dev-key", view.KeyName)
}

func TestUpImportsMissingKeyPair(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SSHPublicKeyPath = writeTestKey(t)

	imported := false
	keys := &MockKeyAPI{
		DescribeKeyPairsFunc: func(_ context.Context, params *awsec2.DescribeKeyPairsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeKeyPairsOutput, error) {
			assert.Equal(t, []string{"dev-key"}, params.KeyNames)
			return nil, apiErr("InvalidKeyPair.NotFound")
		},
		ImportKeyPairFunc: func(_ context.Context, params *awsec2.ImportKeyPairInput, _ ...func(*awsec2.Options)) (*awsec2.ImportKeyPairOutput, error) {
			imported = true
			assert.Equal(t, "dev-key", aws.ToString(params.KeyName))
			assert.True(t, strings.HasPrefix(string(params.PublicKeyMaterial), "ssh-ed25519 "))
			require.Len(t, params.TagSpecifications, 1)
			assert.Equal(t, types.ResourceTypeKeyPair, params.TagSpecifications[0].ResourceType)
			return &awsec2.ImportKeyPairOutput{}, nil
		},
	}
	instances := instancesAPI(
		&awsec2.DescribeInstancesOutput{},
		reservationOf(testInstance("i-new", "web", types.InstanceStateNameRunning)),
	)
	instances.RunInstancesFunc = func(_ context.Context, _ *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
		return &awsec2.RunInstancesOutput{Instances: []types.Instance{testInstance("i-new", "web", types.InstanceStateNamePending)}}, nil
	}

	a := New(cfg, &Clients{
		Network:   foundNetwork(),
		Instances: instances,
		Keys:      keys,
	})
	a.waitTimeout = time.Second

	_, err := a.Up(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, imported)
}

func TestUpResolvesImageFromParameterStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Image = ""

	params := &MockParameterAPI{
		GetParameterFunc: func(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			assert.Equal(t, ubuntuAMIParameter, aws.ToString(in.Name))
			return &ssm.GetParameterOutput{
				Parameter: &ssmtypes.Parameter{Value: aws.String("ami-ubuntu-lts")},
			}, nil
		},
	}
	instances := instancesAPI(
		&awsec2.DescribeInstancesOutput{},
		reservationOf(testInstance("i-new", "web", types.InstanceStateNameRunning)),
	)
	instances.RunInstancesFunc = func(_ context.Context, in *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
		assert.Equal(t, "ami-ubuntu-lts", aws.ToString(in.ImageId))
		return &awsec2.RunInstancesOutput{Instances: []types.Instance{testInstance("i-new", "web", types.InstanceStateNamePending)}}, nil
	}

	a := New(cfg, &Clients{
		Network:   foundNetwork(),
		Instances: instances,
		Keys:      foundKeyPair(),
		Params:    params,
	})
	a.waitTimeout = time.Second

	_, err := a.Up(context.Background(), "web")
	require.NoError(t, err)
}

func TestUpReturnsPartialViewWhenWaitFails(t *testing.T) {
	t.Parallel()

	// The instance dies before reaching running; the caller still gets the
	// created view so the operator knows what is billing.
	instances := instancesAPI(
		&awsec2.DescribeInstancesOutput{},
		reservationOf(testInstance("i-new", "web", types.InstanceStateNameTerminated)),
	)
	instances.RunInstancesFunc = func(_ context.Context, _ *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
		inst := testInstance("i-new", "web", types.InstanceStateNamePending)
		inst.Tags = nil
		return &awsec2.RunInstancesOutput{Instances: []types.Instance{inst}}, nil
	}
	a := testAdapter(&Clients{
		Network:   foundNetwork(),
		Instances: instances,
		Keys:      foundKeyPair(),
	})

	view, err := a.Up(context.Background(), "web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for i-new to run")
	require.NotNil(t, view)
	assert.Equal(t, "i-new", view.ID)
	assert.Equal(t, "web", view.Name)
}

func TestStatusWalksPagesAndFillsChecks(t *testing.T) {
	t.Parallel()

	pages := 0
	instances := &MockInstanceAPI{
		DescribeInstancesFunc: func(_ context.Context, params *awsec2.DescribeInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			pages++
			switch pages {
			case 1:
				assert.Nil(t, params.NextToken)
				out := reservationOf(testInstance("i-1", "web-1", types.InstanceStateNameRunning))
				out.NextToken = aws.String("page-2")
				return out, nil
			default:
				assert.Equal(t, "page-2", aws.ToString(params.NextToken))
				return reservationOf(testInstance("i-2", "web-2", types.InstanceStateNameStopped)), nil
			}
		},
		DescribeInstanceStatusFunc: func(_ context.Context, params *awsec2.DescribeInstanceStatusInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstanceStatusOutput, error) {
			assert.ElementsMatch(t, []string{"i-1", "i-2"}, params.InstanceIds)
			assert.True(t, aws.ToBool(params.IncludeAllInstances))
			return &awsec2.DescribeInstanceStatusOutput{
				InstanceStatuses: []types.InstanceStatus{
					{
						InstanceId:     aws.String("i-1"),
						InstanceStatus: &types.InstanceStatusSummary{Status: types.SummaryStatusOk},
						SystemStatus:   &types.InstanceStatusSummary{Status: types.SummaryStatusOk},
					},
					{
						InstanceId:     aws.String("i-2"),
						InstanceStatus: &types.InstanceStatusSummary{Status: types.SummaryStatusImpaired},
						SystemStatus:   &types.InstanceStatusSummary{Status: types.SummaryStatusOk},
					},
				},
			}, nil
		},
	}
	net := foundNetwork()
	net.DescribeInternetGatewaysFunc = func(_ context.Context, _ *awsec2.DescribeInternetGatewaysInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInternetGatewaysOutput, error) {
		return &awsec2.DescribeInternetGatewaysOutput{}, nil
	}
	a := testAdapter(&Clients{Network: net, Instances: instances})

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ec2", st.Provider)
	assert.Equal(t, "dev", st.Cluster)
	assert.Equal(t, "vpc-1", st.Network.NetworkID)
	assert.Empty(t, st.Network.GatewayID, "a torn-down layer reads as absent")

	require.Len(t, st.Instances, 2)
	assert.Equal(t, "web-1", st.Instances[0].Name)
	assert.Equal(t, provider.ChecksPassed, st.Instances[0].Checks)
	assert.Equal(t, "web-2", st.Instances[1].Name)
	assert.Equal(t, provider.ChecksFailed, st.Instances[1].Checks)
}

func TestRunStateMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   types.InstanceStateName
		want provider.RunState
	}{
		{types.InstanceStateNamePending, provider.RunStatePending},
		{types.InstanceStateNameRunning, provider.RunStateRunning},
		{types.InstanceStateNameStopping, provider.RunStateStopping},
		{types.InstanceStateNameShuttingDown, provider.RunStateStopping},
		{types.InstanceStateNameStopped, provider.RunStateStopped},
		{types.InstanceStateNameTerminated, provider.RunStateTerminated},
		{types.InstanceStateName("rebooting"), provider.RunStateUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, runState(tt.in), "state %s", tt.in)
	}
}

func TestChecksStatusFolding(t *testing.T) {
	t.Parallel()

	status := func(inst, sys types.SummaryStatus) types.InstanceStatus {
		return types.InstanceStatus{
			InstanceStatus: &types.InstanceStatusSummary{Status: inst},
			SystemStatus:   &types.InstanceStatusSummary{Status: sys},
		}
	}

	assert.Equal(t, provider.ChecksPassed, checksStatus(status(types.SummaryStatusOk, types.SummaryStatusOk)))
	assert.Equal(t, provider.ChecksFailed, checksStatus(status(types.SummaryStatusImpaired, types.SummaryStatusOk)))
	assert.Equal(t, provider.ChecksFailed, checksStatus(status(types.SummaryStatusOk, types.SummaryStatusImpaired)))
	assert.Equal(t, provider.ChecksUnknown, checksStatus(status(types.SummaryStatusInitializing, types.SummaryStatusOk)))
}

func TestRebootRefreshesView(t *testing.T) {
	t.Parallel()

	rebooted := false
	instances := instancesAPI(
		reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)),
		reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)),
	)
	instances.RebootInstancesFunc = func(_ context.Context, params *awsec2.RebootInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RebootInstancesOutput, error) {
		rebooted = true
		assert.Equal(t, []string{"i-1"}, params.InstanceIds)
		return &awsec2.RebootInstancesOutput{}, nil
	}
	a := testAdapter(&Clients{Instances: instances})

	view, err := a.Reboot(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, rebooted)
	require.NotNil(t, view)
	assert.Equal(t, provider.RunStateRunning, view.State)
}

func TestRebootUnknownInstance(t *testing.T) {
	t.Parallel()

	a := testAdapter(&Clients{Instances: instancesAPI(&awsec2.DescribeInstancesOutput{}, nil)})

	_, err := a.Reboot(context.Background(), "ghost")
	require.ErrorIs(t, err, provider.ErrInstanceNotFound)
}

func TestRebootAmbiguousName(t *testing.T) {
	t.Parallel()

	a := testAdapter(&Clients{Instances: instancesAPI(
		reservationOf(
			testInstance("i-1", "web", types.InstanceStateNameRunning),
			testInstance("i-2", "web", types.InstanceStateNameRunning),
		),
		nil,
	)})

	_, err := a.Reboot(context.Background(), "web")
	require.ErrorIs(t, err, provider.ErrAmbiguousTarget)
}

func TestDestroyWaitsForTermination(t *testing.T) {
	t.Parallel()

	terminated := false
	instances := instancesAPI(
		reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)),
		reservationOf(testInstance("i-1", "web", types.InstanceStateNameTerminated)),
	)
	instances.TerminateInstancesFunc = func(_ context.Context, params *awsec2.TerminateInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
		terminated = true
		assert.Equal(t, []string{"i-1"}, params.InstanceIds)
		return &awsec2.TerminateInstancesOutput{}, nil
	}
	a := testAdapter(&Clients{Instances: instances})

	view, err := a.Destroy(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, terminated)
	require.NotNil(t, view)
	assert.Equal(t, provider.RunStateTerminated, view.State)
}

func TestDestroySynthesizesViewWhenInstanceVanishes(t *testing.T) {
	t.Parallel()

	idReads := 0
	instances := &MockInstanceAPI{
		DescribeInstancesFunc: func(_ context.Context, params *awsec2.DescribeInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			if len(params.InstanceIds) == 0 {
				return reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)), nil
			}
			idReads++
			if idReads == 1 {
				// The terminated waiter still sees the instance.
				return reservationOf(testInstance("i-1", "web", types.InstanceStateNameTerminated)), nil
			}
			return nil, apiErr("InvalidInstanceID.NotFound")
		},
		TerminateInstancesFunc: func(_ context.Context, _ *awsec2.TerminateInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
			return &awsec2.TerminateInstancesOutput{}, nil
		},
	}
	a := testAdapter(&Clients{Instances: instances})

	view, err := a.Destroy(context.Background(), "web")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "i-1", view.ID)
	assert.Equal(t, "web", view.Name)
	assert.Equal(t, provider.RunStateTerminated, view.State)
	assert.Equal(t, provider.ChecksUnknown, view.Checks)
}

func TestTeardownRemovesTaggedStackInReverse(t *testing.T) {
	t.Parallel()

	var deleted []string
	record := func(kind string) {
		deleted = append(deleted, kind)
	}

	net := &MockNetworkAPI{
		DescribeVpcsFunc: func(_ context.Context, _ *awsec2.DescribeVpcsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeVpcsOutput, error) {
			return &awsec2.DescribeVpcsOutput{Vpcs: []types.Vpc{{VpcId: aws.String("vpc-1")}}}, nil
		},
		DeleteVpcFunc: func(_ context.Context, params *awsec2.DeleteVpcInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteVpcOutput, error) {
			assert.Equal(t, "vpc-1", aws.ToString(params.VpcId))
			record("vpc")
			return &awsec2.DeleteVpcOutput{}, nil
		},
		DescribeSubnetsFunc: func(_ context.Context, _ *awsec2.DescribeSubnetsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSubnetsOutput, error) {
			return &awsec2.DescribeSubnetsOutput{Subnets: []types.Subnet{{SubnetId: aws.String("subnet-1")}}}, nil
		},
		DeleteSubnetFunc: func(_ context.Context, _ *awsec2.DeleteSubnetInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteSubnetOutput, error) {
			record("subnet")
			return &awsec2.DeleteSubnetOutput{}, nil
		},
		DescribeSecurityGroupsFunc: func(_ context.Context, _ *awsec2.DescribeSecurityGroupsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error) {
			return &awsec2.DescribeSecurityGroupsOutput{SecurityGroups: []types.SecurityGroup{{GroupId: aws.String("sg-1")}}}, nil
		},
		DeleteSecurityGroupFunc: func(_ context.Context, _ *awsec2.DeleteSecurityGroupInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteSecurityGroupOutput, error) {
			record("sg")
			return &awsec2.DeleteSecurityGroupOutput{}, nil
		},
		DescribeInternetGatewaysFunc: func(_ context.Context, params *awsec2.DescribeInternetGatewaysInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInternetGatewaysOutput, error) {
			igw := types.InternetGateway{InternetGatewayId: aws.String("igw-1")}
			if len(params.InternetGatewayIds) > 0 {
				igw.Attachments = []types.InternetGatewayAttachment{{VpcId: aws.String("vpc-1")}}
			}
			return &awsec2.DescribeInternetGatewaysOutput{InternetGateways: []types.InternetGateway{igw}}, nil
		},
		DetachInternetGatewayFunc: func(_ context.Context, params *awsec2.DetachInternetGatewayInput, _ ...func(*awsec2.Options)) (*awsec2.DetachInternetGatewayOutput, error) {
			assert.Equal(t, "vpc-1", aws.ToString(params.VpcId))
			record("igw-detach")
			return &awsec2.DetachInternetGatewayOutput{}, nil
		},
		DeleteInternetGatewayFunc: func(_ context.Context, _ *awsec2.DeleteInternetGatewayInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteInternetGatewayOutput, error) {
			record("igw")
			return &awsec2.DeleteInternetGatewayOutput{}, nil
		},
		DescribeRouteTablesFunc: func(_ context.Context, params *awsec2.DescribeRouteTablesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeRouteTablesOutput, error) {
			rt := types.RouteTable{RouteTableId: aws.String("rtb-1")}
			if len(params.RouteTableIds) > 0 {
				rt.Associations = []types.RouteTableAssociation{
					{RouteTableAssociationId: aws.String("rtbassoc-main"), Main: aws.Bool(true)},
					{RouteTableAssociationId: aws.String("rtbassoc-1"), Main: aws.Bool(false)},
				}
			}
			return &awsec2.DescribeRouteTablesOutput{RouteTables: []types.RouteTable{rt}}, nil
		},
		DisassociateRouteTableFunc: func(_ context.Context, params *awsec2.DisassociateRouteTableInput, _ ...func(*awsec2.Options)) (*awsec2.DisassociateRouteTableOutput, error) {
			assert.Equal(t, "rtbassoc-1", aws.ToString(params.AssociationId), "the main association is never ours to remove")
			record("rtb-disassoc")
			return &awsec2.DisassociateRouteTableOutput{}, nil
		},
		DeleteRouteTableFunc: func(_ context.Context, _ *awsec2.DeleteRouteTableInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteRouteTableOutput, error) {
			record("rtb")
			return &awsec2.DeleteRouteTableOutput{}, nil
		},
	}
	a := testAdapter(&Clients{Network: net})

	td, err := a.TeardownNetwork(context.Background())
	require.NoError(t, err)
	require.NotNil(t, td)
	assert.True(t, td.Clean())
	require.Len(t, td.Steps, 5)
	assert.Equal(t, network.KindRouteTable, td.Steps[0].Kind)
	assert.Equal(t, network.KindNetwork, td.Steps[4].Kind)
	assert.Equal(t, []string{"rtb-disassoc", "rtb", "igw-detach", "igw", "sg", "subnet", "vpc"}, deleted)
}

func TestTeardownReportsFailedLayerAndContinues(t *testing.T) {
	t.Parallel()

	vpcDeleted := false
	net := &MockNetworkAPI{
		DescribeVpcsFunc: func(_ context.Context, _ *awsec2.DescribeVpcsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeVpcsOutput, error) {
			return &awsec2.DescribeVpcsOutput{Vpcs: []types.Vpc{{VpcId: aws.String("vpc-1")}}}, nil
		},
		DeleteVpcFunc: func(_ context.Context, _ *awsec2.DeleteVpcInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteVpcOutput, error) {
			vpcDeleted = true
			return &awsec2.DeleteVpcOutput{}, nil
		},
		DescribeSubnetsFunc: func(_ context.Context, _ *awsec2.DescribeSubnetsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSubnetsOutput, error) {
			return &awsec2.DescribeSubnetsOutput{}, nil
		},
		DescribeSecurityGroupsFunc: func(_ context.Context, _ *awsec2.DescribeSecurityGroupsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error) {
			return &awsec2.DescribeSecurityGroupsOutput{SecurityGroups: []types.SecurityGroup{{GroupId: aws.String("sg-1")}}}, nil
		},
		DeleteSecurityGroupFunc: func(_ context.Context, _ *awsec2.DeleteSecurityGroupInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteSecurityGroupOutput, error) {
			return nil, apiErr("DependencyViolation")
		},
		DescribeInternetGatewaysFunc: func(_ context.Context, _ *awsec2.DescribeInternetGatewaysInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInternetGatewaysOutput, error) {
			return &awsec2.DescribeInternetGatewaysOutput{}, nil
		},
		DescribeRouteTablesFunc: func(_ context.Context, _ *awsec2.DescribeRouteTablesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeRouteTablesOutput, error) {
			return &awsec2.DescribeRouteTablesOutput{}, nil
		},
	}
	a := testAdapter(&Clients{Network: net})

	td, err := a.TeardownNetwork(context.Background())
	require.Error(t, err)
	require.NotNil(t, td)
	assert.False(t, td.Clean())

	failed := td.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, network.KindSecurityBoundary, failed[0].Kind)
	assert.True(t, vpcDeleted, "layers below the failure are still attempted")
}

func TestRemoveKeyMaterialIgnoresMissingPair(t *testing.T) {
	t.Parallel()

	keys := &MockKeyAPI{
		DeleteKeyPairFunc: func(_ context.Context, params *awsec2.DeleteKeyPairInput, _ ...func(*awsec2.Options)) (*awsec2.DeleteKeyPairOutput, error) {
			assert.Equal(t, "dev-key", aws.ToString(params.KeyName))
			return nil, apiErr("InvalidKeyPair.NotFound")
		},
	}
	a := testAdapter(&Clients{Keys: keys})

	require.NoError(t, a.RemoveKeyMaterial(context.Background()))
}

func TestRegionsListsEndpoints(t *testing.T) {
	t.Parallel()

	placement := &MockPlacementAPI{
		DescribeRegionsFunc: func(_ context.Context, _ *awsec2.DescribeRegionsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error) {
			return &awsec2.DescribeRegionsOutput{Regions: []types.Region{
				{RegionName: aws.String("us-east-2"), Endpoint: aws.String("ec2.us-east-2.amazonaws.com")},
				{RegionName: aws.String("eu-central-1"), Endpoint: aws.String("ec2.eu-central-1.amazonaws.com")},
			}}, nil
		},
	}
	a := testAdapter(&Clients{Placement: placement})

	regions, err := a.Regions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "us-east-2", regions[0].Name)
	assert.Equal(t, "ec2.us-east-2.amazonaws.com", regions[0].Description)
}

func TestZonesFilterByRegion(t *testing.T) {
	t.Parallel()

	placement := &MockPlacementAPI{
		DescribeAvailabilityZonesFunc: func(_ context.Context, params *awsec2.DescribeAvailabilityZonesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeAvailabilityZonesOutput, error) {
			require.Len(t, params.Filters, 1)
			assert.Equal(t, "region-name", aws.ToString(params.Filters[0].Name))
			assert.Equal(t, []string{"us-west-2"}, params.Filters[0].Values)
			return &awsec2.DescribeAvailabilityZonesOutput{AvailabilityZones: []types.AvailabilityZone{
				{ZoneName: aws.String("us-west-2a"), RegionName: aws.String("us-west-2"), State: types.AvailabilityZoneStateAvailable},
				{ZoneName: aws.String("us-west-2b"), RegionName: aws.String("us-west-2"), State: types.AvailabilityZoneStateAvailable},
			}}, nil
		},
	}
	a := testAdapter(&Clients{Placement: placement})

	zones, err := a.Zones(context.Background(), "us-west-2")
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "us-west-2a", zones[0].Name)
	assert.Equal(t, "us-west-2", zones[0].Region)
	assert.Equal(t, "available", zones[0].Status)
}

func TestZonesDefaultToConfiguredRegion(t *testing.T) {
	t.Parallel()

	placement := &MockPlacementAPI{
		DescribeAvailabilityZonesFunc: func(_ context.Context, params *awsec2.DescribeAvailabilityZonesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeAvailabilityZonesOutput, error) {
			require.Len(t, params.Filters, 1)
			assert.Equal(t, []string{"us-east-2"}, params.Filters[0].Values)
			return &awsec2.DescribeAvailabilityZonesOutput{}, nil
		},
	}
	a := testAdapter(&Clients{Placement: placement})

	_, err := a.Zones(context.Background(), "")
	require.NoError(t, err)
}

func TestIdentityFormatsCallerArn(t *testing.T) {
	t.Parallel()

	identity := &MockIdentityAPI{
		GetCallerIdentityFunc: func(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
			return &sts.GetCallerIdentityOutput{
				Arn:     aws.String("arn:aws:iam::123456789012:user/op"),
				Account: aws.String("123456789012"),
			}, nil
		},
	}
	a := testAdapter(&Clients{Identity: identity})

	id, err := a.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:user/op (account 123456789012)", id)
}

func TestHealthReachableWithConfirmedKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SSHPublicKeyPath = writeTestKey(t)

	instances := instancesAPI(reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)), nil)
	instances.DescribeInstanceStatusFunc = func(_ context.Context, _ *awsec2.DescribeInstanceStatusInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstanceStatusOutput, error) {
		return &awsec2.DescribeInstanceStatusOutput{InstanceStatuses: []types.InstanceStatus{{
			InstanceId:     aws.String("i-1"),
			InstanceStatus: &types.InstanceStatusSummary{Status: types.SummaryStatusOk},
			SystemStatus:   &types.InstanceStatusSummary{Status: types.SummaryStatusOk},
		}}}, nil
	}
	net := &MockNetworkAPI{
		DescribeSecurityGroupsFunc: func(_ context.Context, params *awsec2.DescribeSecurityGroupsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error) {
			assert.Equal(t, []string{"sg-1"}, params.GroupIds)
			return &awsec2.DescribeSecurityGroupsOutput{SecurityGroups: []types.SecurityGroup{{
				GroupId: aws.String("sg-1"),
				IpPermissions: []types.IpPermission{{
					IpProtocol: aws.String("tcp"),
					FromPort:   aws.Int32(22),
					ToPort:     aws.Int32(22),
					IpRanges:   []types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
				}},
			}}}, nil
		},
	}
	connect := &MockConnectAPI{
		SendSSHPublicKeyFunc: func(_ context.Context, params *ec2instanceconnect.SendSSHPublicKeyInput, _ ...func(*ec2instanceconnect.Options)) (*ec2instanceconnect.SendSSHPublicKeyOutput, error) {
			assert.Equal(t, "i-1", aws.ToString(params.InstanceId))
			assert.Equal(t, "ubuntu", aws.ToString(params.InstanceOSUser))
			assert.Equal(t, "us-east-2a", aws.ToString(params.AvailabilityZone))
			assert.True(t, strings.HasPrefix(aws.ToString(params.SSHPublicKey), "ssh-ed25519 "))
			return &ec2instanceconnect.SendSSHPublicKeyOutput{Success: true}, nil
		},
	}
	a := New(cfg, &Clients{Network: net, Instances: instances, Connect: connect})
	a.waitTimeout = time.Second

	report, err := a.Health(context.Background(), "web", "")
	require.NoError(t, err)
	assert.Equal(t, provider.RunStateRunning, report.RunState)
	assert.Equal(t, provider.ChecksPassed, report.Checks)
	assert.Equal(t, provider.IngressOpenWorld, report.Ingress)
	assert.Equal(t, provider.ReachabilityReachable, report.Reachability)
	assert.Equal(t, provider.KeyProbeOk, report.KeyProbe)
	assert.Equal(t, provider.DiagnosisHealthy, report.Diagnosis)
}

func TestHealthDegradedWhenKeyProbeDenied(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SSHPublicKeyPath = writeTestKey(t)

	instances := instancesAPI(reservationOf(testInstance("i-1", "web", types.InstanceStateNameRunning)), nil)
	instances.DescribeInstanceStatusFunc = func(_ context.Context, _ *awsec2.DescribeInstanceStatusInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstanceStatusOutput, error) {
		return &awsec2.DescribeInstanceStatusOutput{}, nil
	}
	net := &MockNetworkAPI{
		DescribeSecurityGroupsFunc: func(_ context.Context, _ *awsec2.DescribeSecurityGroupsInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error) {
			return &awsec2.DescribeSecurityGroupsOutput{SecurityGroups: []types.SecurityGroup{{
				GroupId: aws.String("sg-1"),
				IpPermissions: []types.IpPermission{{
					IpProtocol: aws.String("tcp"),
					FromPort:   aws.Int32(22),
					ToPort:     aws.Int32(22),
					IpRanges:   []types.IpRange{{CidrIp: aws.String("198.51.100.0/24")}},
				}},
			}}}, nil
		},
	}
	connect := &MockConnectAPI{
		SendSSHPublicKeyFunc: func(_ context.Context, _ *ec2instanceconnect.SendSSHPublicKeyInput, _ ...func(*ec2instanceconnect.Options)) (*ec2instanceconnect.SendSSHPublicKeyOutput, error) {
			return nil, apiErr("AccessDeniedException")
		},
	}
	a := New(cfg, &Clients{Network: net, Instances: instances, Connect: connect})
	a.waitTimeout = time.Second

	report, err := a.Health(context.Background(), "web", "")
	require.NoError(t, err)
	assert.Equal(t, provider.IngressRestricted, report.Ingress)
	assert.Equal(t, provider.ReachabilityReachable, report.Reachability)
	assert.Equal(t, provider.KeyProbeDenied, report.KeyProbe)
	assert.Equal(t, "nope", report.KeyProbeNote)
	assert.Equal(t, provider.DiagnosisDegraded, report.Diagnosis)
}

func TestHealthStoppedInstanceSkipsKeyProbe(t *testing.T) {
	t.Parallel()

	inst := testInstance("i-1", "web", types.InstanceStateNameStopped)
	inst.PublicIpAddress = nil
	inst.SecurityGroups = nil

	instances := instancesAPI(reservationOf(inst), nil)
	instances.DescribeInstanceStatusFunc = func(_ context.Context, _ *awsec2.DescribeInstanceStatusInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeInstanceStatusOutput, error) {
		return &awsec2.DescribeInstanceStatusOutput{}, nil
	}

	// No Connect client is wired at all: a stopped instance must never
	// reach the key probe.
	a := testAdapter(&Clients{Instances: instances})

	report, err := a.Health(context.Background(), "web", "")
	require.NoError(t, err)
	assert.Equal(t, provider.RunStateStopped, report.RunState)
	assert.Equal(t, provider.IngressUnknown, report.Ingress)
	assert.Equal(t, provider.KeyProbeUnknown, report.KeyProbe)
	assert.Contains(t, report.KeyProbeNote, "not running")
	assert.Equal(t, provider.DiagnosisUnreachable, report.Diagnosis)
}

func TestNormalizeRuleFlattensSources(t *testing.T) {
	t.Parallel()

	rule := normalizeRule(types.IpPermission{
		IpProtocol: aws.String("-1"),
		IpRanges:   []types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
		Ipv6Ranges: []types.Ipv6Range{{CidrIpv6: aws.String("::/0")}},
		UserIdGroupPairs: []types.UserIdGroupPair{
			{GroupId: aws.String("sg-peer")},
		},
	})
	assert.Equal(t, "all", rule.Protocol)
	assert.Equal(t, []string{"0.0.0.0/0", "::/0", "sg-peer"}, rule.Sources)
}

func TestCallPassesStructuralErrorsThrough(t *testing.T) {
	t.Parallel()

	attempts := 0
	_, err := call(context.Background(), func() (int, error) {
		attempts++
		return 0, apiErr("UnauthorizedOperation")
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrProviderUnavailable)
	var apiError smithy.APIError
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, "UnauthorizedOperation", apiError.ErrorCode())
	assert.Equal(t, 1, attempts, "structural failures must not be retried")
}

func TestCallReportsUnavailableWhenCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := call(ctx, func() (int, error) {
		return 0, apiErr("RequestLimitExceeded")
	})
	require.ErrorIs(t, err, provider.ErrProviderUnavailable)
}
