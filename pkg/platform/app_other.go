//go:build !darwin

package platform

// IsAppActive always reports true off macOS; window managers there raise
// the alert window themselves
func IsAppActive() bool {
	return true
}

func ActivateApp() {}

func SetActivationPolicy() {}
