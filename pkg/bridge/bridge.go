/*
Package bridge describes the native platform bridge the host exposes to
wallet code and provides a logging implementation for runs without a
native host.
*/
package bridge

import (
	goruntime "runtime"
	"time"

	json "github.com/nspcc-dev/go-ordered-json"
	"go.uber.org/zap"
)

// Bridge is the native platform bridge.
type Bridge interface {
	ShowToast(message string)
	Log(message string)
	// GetDeviceInfo returns device description as JSON, see DeviceInfo.
	GetDeviceInfo() string
	Vibrate(durationMs int)
}

// DeviceInfo is the GetDeviceInfo result.
type DeviceInfo struct {
	Platform     string `json:"platform"`
	Version      int    `json:"version"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
}

// ParseDeviceInfo decodes GetDeviceInfo output.
func ParseDeviceInfo(s string) (DeviceInfo, error) {
	var info DeviceInfo
	err := json.Unmarshal([]byte(s), &info)
	return info, err
}

// LogBridge is a Bridge writing everything to the log.
type LogBridge struct {
	log  *zap.Logger
	info DeviceInfo
}

// NewLogBridge creates LogBridge. Zero info is replaced with the current
// platform description.
func NewLogBridge(log *zap.Logger, info DeviceInfo) *LogBridge {
	if log == nil {
		log = zap.NewNop()
	}
	if info == (DeviceInfo{}) {
		info = DeviceInfo{
			Platform:     goruntime.GOOS,
			Model:        goruntime.GOARCH,
			Manufacturer: "unknown",
		}
	}
	return &LogBridge{log: log.Named("WalletBridge"), info: info}
}

// ShowToast implements Bridge interface.
func (b *LogBridge) ShowToast(message string) {
	b.log.Info("toast", zap.String("message", message))
}

// Log implements Bridge interface.
func (b *LogBridge) Log(message string) {
	b.log.Debug(message)
}

// GetDeviceInfo implements Bridge interface.
func (b *LogBridge) GetDeviceInfo() string {
	data, err := json.Marshal(b.info)
	if err != nil {
		b.log.Error("can't marshal device info", zap.Error(err))
		return "{}"
	}
	return string(data)
}

// Vibrate implements Bridge interface.
func (b *LogBridge) Vibrate(durationMs int) {
	b.log.Info("vibrate", zap.Duration("duration", time.Duration(durationMs)*time.Millisecond))
}
