package blockdev

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"driveshift/internal/logging"
)

// Event describes a block-device hotplug notification.
type Event struct {
	Action  string
	DevName string
}

// Watcher listens for udev netlink events on the block subsystem so the CLI
// can report drives being attached or removed while the operator prepares a
// transfer.
type Watcher struct {
	logger *slog.Logger
}

// NewWatcher constructs a hotplug watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	return &Watcher{logger: logging.NewComponentLogger(logger, "udev-watcher")}
}

// Watch streams add/remove/change events for whole disks and partitions into
// the returned channel until ctx is cancelled. The channel is closed on
// return.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}

	events := make(chan Event)
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	monitorQuit := conn.Monitor(queue, errs, w.matcher())

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				close(monitorQuit)
				return
			case uevent := <-queue:
				devname := extractDevName(uevent)
				if devname == "" {
					continue
				}
				evt := Event{Action: string(uevent.Action), DevName: devname}
				select {
				case events <- evt:
				case <-ctx.Done():
					close(monitorQuit)
					return
				}
			case err := <-errs:
				w.logger.Warn("udev monitor error", logging.Error(err))
			}
		}
	}()

	return events, nil
}

func (w *Watcher) matcher() netlink.Matcher {
	action := "add|remove|change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
		},
	})
	return rules
}

func extractDevName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
