/*
Package gnssdriver drives a u-blox or Mediatek GNSS receiver over a byte
stream: it decodes NMEA 0183 and UBX frames, fuses multi-sentence fixes into
Location and SatelliteSet snapshots, and runs the receiver's configuration
handshake (baud negotiation, init table replay, ACK/NACK gating with
timeout-driven resend).

# Session

A Session owns the whole pipeline for one receiver. The caller supplies two
capabilities — a non-blocking send primitive and a one-shot timer — and two
callbacks for complete fixes:

	sess := gnssdriver.New(
	    gnssdriver.ModeUBlox, 5,
	    serialPort, clockTimer, logger,
	    func(loc gnssdriver.Location) { fmt.Printf("%+v\n", loc) },
	    func(sats gnssdriver.SatelliteSet) { fmt.Printf("%d SVs\n", sats.Count) },
	)
	sess.Initialize(38400)
	// once the UART has been reopened at 38400 and a first frame observed:
	sess.BeginTableReplay()

# Feeding bytes

Receive is the single entry point from the UART receive path; it never
blocks and never allocates beyond what a single call needs:

	n, _ := port.Read(buf)
	sess.Receive(buf[:n])

# Runtime setters

Once the init table has completed, the runtime setters reconfigure a live
receiver. Each returns false without effect if a table is already in
progress or a send is still outstanding:

	if !sess.SetConstellation(true) {
	    // busy; retry once Done() is true
	}
*/
package gnssdriver
