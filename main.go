package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgefeed/ringflow/hdrreport"
	"github.com/edgefeed/ringflow/sink"
	"github.com/edgefeed/ringflow/spsc"
	"github.com/edgefeed/ringflow/window"
)

// MinuteInUs 1 minute in microseconds
const MinuteInUs int64 = 60 * 1000 * 1000

// item is what the producer pushes through the ring: a payload byte
// stamped with its push time so the consumer can measure transit.
type item struct {
	value    byte
	pushedAt time.Time
}

// MeasuredTransfer holds metadata about one item the consumer
// pulled off the ring.
type MeasuredTransfer struct {
	value   byte
	transit int64 // microseconds from push to pop
	err     error
}

func exUsage(msg string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(msg, args...))
	fmt.Fprintln(os.Stderr, "Try --help for help.")
	os.Exit(64)
}

// CalcTimeToWait calculates how many Nanoseconds to wait between pushes.
func CalcTimeToWait(rate *int) time.Duration {
	return time.Duration(int(time.Second) / *rate)
}

var pushed = uint64(0)
var dropped = uint64(0)

var shouldFinish = false
var shouldFinishLock sync.RWMutex

// finishProducing signals the producer to stop pushing and clean up after itself.
func finishProducing() {
	shouldFinishLock.Lock()
	shouldFinish = true
	shouldFinishLock.Unlock()
}

var (
	promPushes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pushes",
		Help: "Number of successful pushes",
	})

	promDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drops",
		Help: "Number of pushes dropped because the ring was full",
	})

	promPops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pops",
		Help: "Number of items popped by the consumer",
	})

	promTransitHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "transit_us",
		Help: "Push-to-pop transit time distributions in microseconds.",
		// 40 exponential buckets ranging from 1 us to ~1.5 s
		Buckets: prometheus.ExponentialBuckets(1, 1.7, 40),
	})
)

func registerMetrics() {
	prometheus.MustRegister(promPushes)
	prometheus.MustRegister(promDrops)
	prometheus.MustRegister(promPops)
	prometheus.MustRegister(promTransitHistogram)
}

// produce pushes random bytes into the ring on a fixed cadence. A full
// ring drops the new byte rather than waiting for space.
func produce(buf *spsc.Ring[item], timeToWait time.Duration, doneProducing chan<- struct{}) {
	ticker := time.NewTicker(timeToWait)
	defer ticker.Stop()
	for range ticker.C {
		shouldFinishLock.RLock()
		if shouldFinish {
			shouldFinishLock.RUnlock()
			close(doneProducing)
			return
		}
		shouldFinishLock.RUnlock()
		if buf.Push(item{value: byte(rand.Intn(256)), pushedAt: time.Now()}) {
			atomic.AddUint64(&pushed, 1)
			promPushes.Inc()
		} else {
			atomic.AddUint64(&dropped, 1)
			promDrops.Inc()
		}
	}
}

// consume polls the ring, writes each payload byte to the output sink,
// and reports every transfer back to the accounting loop. It drains
// whatever is left after the producer stops, then returns.
func consume(buf *spsc.Ring[item], out io.Writer, received chan<- *MeasuredTransfer, doneProducing <-chan struct{}) {
	for {
		it, ok := buf.Pop()
		if !ok {
			select {
			case <-doneProducing:
				// The producer is gone, so empty is final.
				if buf.Len() == 0 {
					return
				}
			default:
			}
			time.Sleep(50 * time.Microsecond)
			continue
		}
		transit := time.Since(it.pushedAt).Microseconds()
		if _, err := out.Write([]byte{it.value}); err != nil {
			received <- &MeasuredTransfer{err: err}
			continue
		}
		received <- &MeasuredTransfer{value: it.value, transit: transit}
	}
}

func main() {
	rate := flag.Int("rate", 1000, "bytes to push per second")
	capacity := flag.Int("capacity", 64, "ring storage size (usable capacity is one less)")
	interval := flag.Duration("interval", 10*time.Second, "reporting interval")
	totalPushes := flag.Uint64("totalPushes", 0, "total number of pushes to attempt before exiting")
	out := flag.String("out", "", "file to write consumed bytes to ('-' for stdout, empty to discard)")
	noTransitSummary := flag.Bool("noTransitSummary", false, "suppress the final transit time summary")
	reportLatenciesCSV := flag.String("reportLatenciesCSV", "",
		"filename to output hdrhistogram transit times in CSV")
	metricAddr := flag.String("metric-addr", "", "address to serve metrics on")
	help := flag.Bool("help", false, "show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", path.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(64)
	}

	if *rate < 1 {
		exUsage("rate must be at least 1")
	}

	if *capacity < 2 {
		exUsage("capacity must be at least 2 to hold any data")
	}

	buf, err := spsc.New[item](*capacity)
	if err != nil {
		exUsage("invalid capacity %d: %s", *capacity, err.Error())
	}

	outWriter, err := sink.Open(*out)
	if err != nil {
		log.Fatalf("Unable to open output sink: %v", err)
	}

	// Transfer tracking metadata.
	popped := uint64(0)
	failed := uint64(0)
	min := int64(math.MaxInt64)
	max := int64(0)

	hist := hdrhistogram.New(0, MinuteInUs, 3)
	globalHist := hdrhistogram.New(0, MinuteInUs, 3)
	transitHistory, err := window.NewHistory(5)
	if err != nil {
		log.Fatalf("Unable to build transit history: %v", err)
	}
	received := make(chan *MeasuredTransfer)
	timeout := time.After(*interval)
	timeToWait := CalcTimeToWait(rate)
	intervalTarget := *rate * int(interval.Seconds())

	doneProducing := make(chan struct{})
	var traffic sync.WaitGroup

	// The time portion of the header can change due to timezone.
	timeLen := len(time.Now().Format(time.RFC3339))
	timePadding := fmt.Sprintf("%*s", timeLen, "")

	fmt.Printf("# pushing %d B/s through a ring of %d (usable %d) ...\n", *rate, *capacity, buf.Cap())
	fmt.Printf("# %s popped/drop/f t   goal%% min [p50 p95 p99  p999]  max change\n", timePadding)

	traffic.Add(2)
	go func() {
		defer traffic.Done()
		produce(buf, timeToWait, doneProducing)
	}()
	go func() {
		defer traffic.Done()
		consume(buf, outWriter, received, doneProducing)
	}()

	cleanup := make(chan bool, 2)
	interrupted := make(chan os.Signal, 2)
	signal.Notify(interrupted, syscall.SIGINT)

	if *metricAddr != "" {
		registerMetrics()
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			http.ListenAndServe(*metricAddr, nil)
		}()
	}

	for {
		select {
		// If we get a SIGINT, then start the shutdown process.
		case <-interrupted:
			cleanup <- true
		case <-cleanup:
			finishProducing()
			if !*noTransitSummary {
				hdrreport.PrintTransitSummary(globalHist)
			}
			if *reportLatenciesCSV != "" {
				err := hdrreport.WriteReportCSV(reportLatenciesCSV, globalHist)
				if err != nil {
					log.Panicf("Unable to write transit CSV file: %v\n", err)
				}
			}
			go func() {
				// Don't Wait() in the event loop or else we'll block the
				// consumer from draining.
				traffic.Wait()
				outWriter.Close()
				os.Exit(0)
			}()
		case t := <-timeout:
			// When nothing moved, ensure we don't accidentally print out
			// a monstrously huge number.
			if min == math.MaxInt64 {
				min = 0
			}
			// Periodically print stats about the transfer load.
			percentAchieved := int(math.Min(((float64(popped) /
				float64(intervalTarget)) * 100), 100))

			lastP99 := int(hist.ValueAtQuantile(99))
			// We want the change indicator to be based on
			// how far away the current value is from what
			// we've seen historically. This is why we call
			// CalculateChangeIndicator() first and then Push()
			changeIndicator := window.CalculateChangeIndicator(transitHistory.Samples(), lastP99)
			transitHistory.Push(lastP99)

			fmt.Printf("%s %6d/%4d/%1d %d %3d%% %3d [%3d %3d %3d %4d ] %4d %s\n",
				t.Format(time.RFC3339),
				popped,
				atomic.SwapUint64(&dropped, 0),
				failed,
				intervalTarget,
				percentAchieved,
				min,
				hist.ValueAtQuantile(50),
				hist.ValueAtQuantile(95),
				hist.ValueAtQuantile(99),
				hist.ValueAtQuantile(999),
				max,
				changeIndicator)

			popped = 0
			failed = 0
			min = int64(math.MaxInt64)
			max = 0
			hist.Reset()
			timeout = time.After(*interval)

			if *totalPushes != 0 && atomic.LoadUint64(&pushed) >= *totalPushes {
				cleanup <- true
			}
		case transfer := <-received:
			if transfer.err != nil {
				fmt.Fprintln(os.Stderr, transfer.err)
				failed++
			} else {
				popped++
				promPops.Inc()
				promTransitHistogram.Observe(float64(transfer.transit))

				if transfer.transit < min {
					min = transfer.transit
				}

				if transfer.transit > max {
					max = transfer.transit
				}

				hist.RecordValue(transfer.transit)
				globalHist.RecordValue(transfer.transit)
			}
		}
	}
}
