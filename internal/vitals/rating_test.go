package vitals

import "testing"

func TestRate_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		metric MetricName
		value  float64
		device DeviceClass
		want   Rating
	}{
		{"LCP at desktop good bound", MetricLCP, 2500, DeviceDesktop, RatingGood},
		{"LCP just over desktop good bound", MetricLCP, 2501, DeviceDesktop, RatingNeedsImprovement},
		{"LCP at desktop NI bound", MetricLCP, 4000, DeviceDesktop, RatingNeedsImprovement},
		{"LCP over desktop NI bound", MetricLCP, 4001, DeviceDesktop, RatingPoor},
		{"LCP mobile bound is looser", MetricLCP, 2800, DeviceMobile, RatingGood},
		{"LCP tablet sits between", MetricLCP, 2800, DeviceTablet, RatingNeedsImprovement},
		{"INP good", MetricINP, 200, DeviceDesktop, RatingGood},
		{"INP poor", MetricINP, 501, DeviceMobile, RatingPoor},
		{"CLS good", MetricCLS, 0.1, DeviceDesktop, RatingGood},
		{"CLS needs improvement", MetricCLS, 0.2, DeviceDesktop, RatingNeedsImprovement},
		{"CLS poor", MetricCLS, 0.3, DeviceMobile, RatingPoor},
		{"FCP mobile looser than desktop", MetricFCP, 2000, DeviceMobile, RatingGood},
		{"FCP desktop same value", MetricFCP, 2000, DeviceDesktop, RatingNeedsImprovement},
		{"TTFB good", MetricTTFB, 500, DeviceDesktop, RatingGood},
		{"TTFB poor", MetricTTFB, 2500, DeviceMobile, RatingPoor},
		{"zero value is good", MetricLCP, 0, DeviceDesktop, RatingGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rate(tt.metric, tt.value, tt.device)
			if got != tt.want {
				t.Errorf("Rate(%s, %v, %s) = %s, want %s", tt.metric, tt.value, tt.device, got, tt.want)
			}
		})
	}
}

func TestRate_EveryMetricAndDeviceHasThresholds(t *testing.T) {
	for _, metric := range MetricNames() {
		for _, device := range []DeviceClass{DeviceDesktop, DeviceMobile, DeviceTablet} {
			good, ni := thresholds(metric, device)
			if good <= 0 || ni <= good {
				t.Errorf("thresholds(%s, %s) = (%v, %v), want 0 < good < needs-improvement", metric, device, good, ni)
			}
		}
	}
}

func TestParseMetricName(t *testing.T) {
	if m, ok := ParseMetricName("lcp"); !ok || m != MetricLCP {
		t.Errorf("ParseMetricName(lcp) = (%s, %v), want (LCP, true)", m, ok)
	}
	if m, ok := ParseMetricName(" TTFB "); !ok || m != MetricTTFB {
		t.Errorf("ParseMetricName( TTFB ) = (%s, %v), want (TTFB, true)", m, ok)
	}
	if _, ok := ParseMetricName("FID"); ok {
		t.Error("ParseMetricName(FID) should not be recognized")
	}
	if _, ok := ParseMetricName(""); ok {
		t.Error("ParseMetricName empty string should not be recognized")
	}
}

func TestParseDeviceClass(t *testing.T) {
	if d := ParseDeviceClass("mobile"); d != DeviceMobile {
		t.Errorf("ParseDeviceClass(mobile) = %s, want mobile", d)
	}
	if d := ParseDeviceClass("tablet"); d != DeviceTablet {
		t.Errorf("ParseDeviceClass(tablet) = %s, want tablet", d)
	}
	if d := ParseDeviceClass(""); d != DeviceDesktop {
		t.Errorf("ParseDeviceClass(empty) = %s, want desktop", d)
	}
	if d := ParseDeviceClass("smartwatch"); d != DeviceDesktop {
		t.Errorf("ParseDeviceClass(smartwatch) = %s, want desktop fallback", d)
	}
}
