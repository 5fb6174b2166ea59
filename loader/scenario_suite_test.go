package loader_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gopherriscv/rv32i-emulator/loader"
	"github.com/gopherriscv/rv32i-emulator/vm"
)

func TestScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Loader Scenario Suite")
}

var _ = Describe("the linked-object fibonacci/factorial example", func() {
	var p *vm.Processor

	BeforeEach(func() {
		prog, mem, err := loader.LoadObject("testdata/fib_fact.robj")
		Expect(err).NotTo(HaveOccurred())

		p = vm.NewProcessor(prog, mem)
		haltPC := uint32(prog.Len()-1) * 4

		for i := 0; i < 10_000 && p.State == vm.StateRunning; i++ {
			Expect(p.Step()).To(Succeed())
			if p.CPU.PC == haltPC {
				break
			}
		}
	})

	It("computes fib(10) into x23", func() {
		Expect(p.CPU.GetRegister(23)).To(BeEquivalentTo(55))
	})

	It("computes 9! into x24 without a multiply opcode", func() {
		Expect(p.CPU.GetRegister(24)).To(BeEquivalentTo(362880))
	})

	It("loads the two data-segment globals into x25 and x26", func() {
		Expect(p.CPU.GetRegister(25)).To(BeEquivalentTo(777))
		Expect(p.CPU.GetRegister(26)).To(BeEquivalentTo(1737))
	})

	It("leaves the processor running, parked on the self-loop", func() {
		Expect(p.State).To(Equal(vm.StateRunning))
	})
})
