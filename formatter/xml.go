package formatter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/truck-simulator/siri"
)

// BuildXML serializes a SIRI response to XML
func (rb *ResponseBuilder) BuildXML(res *siri.SiriResponse) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("<Siri xmlns=\"http://www.siri.org.uk/siri\" version=\"2.0\">")
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	writeElem(&b, "ResponseTimestamp", sd.ResponseTimestamp)
	writeElem(&b, "ProducerRef", sd.ProducerRef)
	for _, vm := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vm)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vm siri.VehicleMonitoring) {
	b.WriteString("<VehicleMonitoringDelivery version=\"2.0\">")
	writeElem(b, "ResponseTimestamp", vm.ResponseTimestamp)
	writeElem(b, "ValidUntil", vm.ValidUntil)
	for _, va := range vm.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		writeElem(b, "RecordedAtTime", va.RecordedAtTime)
		writeElem(b, "ValidUntilTime", va.ValidUntilTime)
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	writeElem(b, "LineRef", mvj.LineRef)
	if fr := mvj.FramedVehicleJourneyRef; fr != nil {
		b.WriteString("<FramedVehicleJourneyRef>")
		writeElem(b, "DataFrameRef", fr.DataFrameRef)
		writeElem(b, "DatedVehicleJourneyRef", fr.DatedVehicleJourneyRef)
		b.WriteString("</FramedVehicleJourneyRef>")
	}
	writeElem(b, "VehicleMode", mvj.VehicleMode)
	writeElem(b, "PublishedLineName", mvj.PublishedLineName)
	writeBool(b, "Monitored", mvj.Monitored)
	// DataSource is required
	writeElem(b, "DataSource", mvj.DataSource)
	if loc := mvj.VehicleLocation; loc != nil {
		b.WriteString("<VehicleLocation>")
		b.WriteString("<Longitude>")
		b.WriteString(strconv.FormatFloat(loc.Longitude, 'f', 6, 64))
		b.WriteString("</Longitude>")
		b.WriteString("<Latitude>")
		b.WriteString(strconv.FormatFloat(loc.Latitude, 'f', 6, 64))
		b.WriteString("</Latitude>")
		b.WriteString("</VehicleLocation>")
	}
	writeElem(b, "Delay", mvj.Delay)
	writeElem(b, "VehicleRef", mvj.VehicleRef)
	writeBool(b, "IsCompleteStopSequence", mvj.IsCompleteStopSequence)
	if ext := mvj.Extensions; ext != nil {
		b.WriteString("<Extensions>")
		writeElem(b, "PONumber", ext.PONumber)
		writeElem(b, "RouteColor", ext.RouteColor)
		b.WriteString("</Extensions>")
	}
	b.WriteString("</MonitoredVehicleJourney>")
}

// writeElem writes <name>value</name>, skipping empty values
func writeElem(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func writeBool(b *strings.Builder, name string, v bool) {
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(strconv.FormatBool(v))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
