//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

static int appIsFrontmost(void) {
    return [NSApp isActive] ? 1 : 0;
}

static void bringAppForward(void) {
    [NSApp activateIgnoringOtherApps:YES];
}

static void useAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}
*/
import "C"
import "log"

// IsAppActive reports whether the alarm owns keyboard focus
func IsAppActive() bool {
	return C.appIsFrontmost() == 1
}

// ActivateApp pulls the alarm in front of other applications
func ActivateApp() {
	C.bringAppForward()
}

// SetActivationPolicy hides the dock icon so the alarm lives in the menu bar
func SetActivationPolicy() {
	log.Println("Setting accessory activation policy")
	C.useAccessoryPolicy()
}
