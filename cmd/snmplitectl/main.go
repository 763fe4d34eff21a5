// snmplitectl is the manager CLI: it issues get, set and bulk requests to a
// running agent and renders the response bindings.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/danmuck/snmplite/internal/manager"
	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/value"
)

var (
	agentAddr string
	timeout   time.Duration
	maxReps   uint16
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "snmplitectl",
	Version: version,
	Short:   "Manager client for the snmplite agent",
	Example: `  snmplitectl get 1.3.6.1.2.1.1.1.0 1.3.6.1.2.1.1.5.0
  snmplitectl set 1.3.6.1.2.1.1.5.0 string core-router
  snmplitectl bulk 1.3.6.1.2.1.2 --max 20`,
}

var getCmd = &cobra.Command{
	Use:   "get OID [OID...]",
	Short: "Read the current values of one or more OIDs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oids := make([]oid.OID, 0, len(args))
		for _, arg := range args {
			o, err := oid.Parse(arg)
			if err != nil {
				return err
			}
			oids = append(oids, o)
		}
		return withClient(func(c *manager.Client) error {
			resp, err := c.Get(oids)
			if err != nil {
				return err
			}
			return printResponse(resp)
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set OID TYPE VALUE [OID TYPE VALUE...]",
	Short: "Write one or more OID values (applied all-or-nothing)",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%3 != 0 {
			return fmt.Errorf("arguments must be OID TYPE VALUE triplets")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		bindings := make([]pdu.Binding, 0, len(args)/3)
		for i := 0; i < len(args); i += 3 {
			o, err := oid.Parse(args[i])
			if err != nil {
				return err
			}
			typ, err := value.ParseType(args[i+1])
			if err != nil {
				return err
			}
			v, err := value.ParseValue(typ, args[i+2])
			if err != nil {
				return err
			}
			bindings = append(bindings, pdu.Binding{OID: o, Value: v})
		}
		return withClient(func(c *manager.Client) error {
			resp, err := c.Set(bindings)
			if err != nil {
				return err
			}
			if resp.Status == pdu.StatusSuccess {
				fmt.Println("Set operation successful:")
			}
			return printResponse(resp)
		})
	},
}

var bulkCmd = &cobra.Command{
	Use:   "bulk START_OID",
	Short: "Read up to --max OIDs strictly after START_OID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := oid.Parse(args[0])
		if err != nil {
			return err
		}
		return withClient(func(c *manager.Client) error {
			resp, err := c.GetBulk(start, maxReps)
			if err != nil {
				return err
			}
			if err := printResponse(resp); err != nil {
				return err
			}
			if resp.Status == pdu.StatusSuccess {
				fmt.Printf("(%s OIDs returned)\n", strconv.Itoa(len(resp.Bindings)))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&agentAddr, "agent", "a", "127.0.0.1:1161", "agent address")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", manager.DefaultTimeout, "request timeout")
	bulkCmd.Flags().Uint16Var(&maxReps, "max", 10, "maximum OIDs to return")
	rootCmd.AddCommand(getCmd, setCmd, bulkCmd)
}

func withClient(fn func(*manager.Client) error) error {
	client, err := manager.Dial(agentAddr, timeout)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func printResponse(resp *pdu.Response) error {
	if resp.Status != pdu.StatusSuccess {
		return fmt.Errorf("%s", manager.FormatStatus(resp.Status))
	}
	for _, b := range resp.Bindings {
		fmt.Println(manager.FormatBinding(b))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
