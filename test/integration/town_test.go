// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

//go:build integration

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/willowgate/willowgate/internal/catalog"
	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/party"
)

func newTownRegistry() *facility.Registry {
	reg := facility.NewRegistry()
	Expect(reg.RegisterService(facility.Guild, func() facility.Service {
		return facility.NewGuild()
	})).To(Succeed())
	Expect(reg.RegisterService(facility.Inn, func() facility.Service {
		return facility.NewInn(facility.DefaultRestCost)
	})).To(Succeed())
	Expect(reg.RegisterService(facility.Shop, func() facility.Service {
		return facility.NewShop(catalog.DefaultShopCatalog())
	})).To(Succeed())
	Expect(reg.RegisterService(facility.Temple, func() facility.Service {
		return facility.NewTemple(facility.DefaultBlessingFee)
	})).To(Succeed())
	Expect(reg.RegisterService(facility.MagicGuild, func() facility.Service {
		return facility.NewMagicGuild(catalog.DefaultSpellbookCatalog(), facility.DefaultAnalysisFee)
	})).To(Succeed())
	return reg
}

func newTownParty(gold int) *party.Party {
	p, err := party.New("The Lantern Bearers", gold)
	Expect(err).NotTo(HaveOccurred())

	mira, err := party.NewCharacter("Mira", party.ClassPriest, 5)
	Expect(err).NotTo(HaveOccurred())
	mira.MaxHP, mira.HP = 40, 18
	mira.MaxMP, mira.MP = 20, 5

	dorn, err := party.NewCharacter("Dorn", party.ClassFighter, 5)
	Expect(err).NotTo(HaveOccurred())
	dorn.MaxHP, dorn.HP = 55, 0
	dorn.Status = party.StatusDead

	Expect(p.AddMember(mira)).To(Succeed())
	Expect(p.AddMember(dorn)).To(Succeed())
	return p
}

var _ = Describe("Town facility flow", func() {
	var (
		ctx context.Context
		reg *facility.Registry
		p   *party.Party
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg = newTownRegistry()
		p = newTownParty(2000)
	})

	AfterEach(func() {
		Expect(reg.Close()).To(Succeed())
	})

	execute := func(id facility.ID, action facility.ActionID, params facility.Params) *facility.Result {
		ctrl, err := reg.Controller(id)
		Expect(err).NotTo(HaveOccurred())
		res := ctrl.ExecuteService(ctx, action, params)
		Expect(res).NotTo(BeNil())
		return res
	}

	Describe("a full day in town", func() {
		It("raises the fallen, rests, shops, and studies", func() {
			By("raising Dorn at the temple")
			Expect(reg.EnterFacility(ctx, facility.Temple, p)).To(Succeed())

			dorn := p.Members[1]
			res := execute(facility.Temple, facility.ActionResurrect,
				facility.Params{CharacterID: dorn.ID})
			Expect(res.NeedsConfirmation()).To(BeTrue())

			confirm, ok := res.Data.(facility.ConfirmData)
			Expect(ok).To(BeTrue())
			Expect(confirm.Cost).To(Equal(500))

			res = execute(facility.Temple, facility.ActionResurrect,
				facility.Params{CharacterID: dorn.ID, Confirmed: true})
			Expect(res.IsSuccess()).To(BeTrue())
			Expect(dorn.Status).To(Equal(party.StatusNormal))
			Expect(dorn.HP).To(Equal(1))
			Expect(p.Gold).To(Equal(1500))

			By("resting at the inn")
			Expect(reg.EnterFacility(ctx, facility.Inn, p)).To(Succeed())
			Expect(reg.InFacility(facility.Temple)).To(BeFalse())

			res = execute(facility.Inn, facility.ActionRest, facility.Params{})
			Expect(res.NeedsConfirmation()).To(BeTrue())

			res = execute(facility.Inn, facility.ActionRest, facility.Params{Confirmed: true})
			Expect(res.IsSuccess()).To(BeTrue())
			for _, m := range p.Members {
				Expect(m.HP).To(Equal(m.MaxHP))
			}

			By("buying torches at the shop")
			Expect(reg.EnterFacility(ctx, facility.Shop, p)).To(Succeed())

			res = execute(facility.Shop, facility.ActionBuyItem,
				facility.Params{ItemID: "torch", Quantity: 2})
			Expect(res.NeedsConfirmation()).To(BeTrue())

			res = execute(facility.Shop, facility.ActionBuyItem,
				facility.Params{ItemID: "torch", Quantity: 2, Confirmed: true})
			Expect(res.IsSuccess()).To(BeTrue())

			By("learning a spell at the magic guild")
			Expect(reg.EnterFacility(ctx, facility.MagicGuild, p)).To(Succeed())

			mira := p.Members[0]
			res = execute(facility.MagicGuild, facility.ActionBuySpellbook,
				facility.Params{CharacterID: mira.ID, SpellbookID: "tome_mend"})
			Expect(res.NeedsConfirmation()).To(BeTrue())

			res = execute(facility.MagicGuild, facility.ActionBuySpellbook,
				facility.Params{CharacterID: mira.ID, SpellbookID: "tome_mend", Confirmed: true})
			Expect(res.IsSuccess()).To(BeTrue())
			Expect(mira.KnownSpells).NotTo(BeEmpty())

			By("stepping back into the street")
			Expect(reg.ExitCurrentFacility()).To(Succeed())
			_, active := reg.CurrentFacility()
			Expect(active).To(BeFalse())
		})
	})

	Describe("the single-active-facility invariant", func() {
		It("holds across a long visiting sequence", func() {
			sequence := []facility.ID{
				facility.Guild, facility.Inn, facility.Shop,
				facility.Temple, facility.MagicGuild, facility.Guild,
			}
			for _, id := range sequence {
				Expect(reg.EnterFacility(ctx, id, p)).To(Succeed())

				current, active := reg.CurrentFacility()
				Expect(active).To(BeTrue())
				Expect(current).To(Equal(id))

				for _, other := range reg.FacilityIDs() {
					if other != id {
						Expect(reg.InFacility(other)).To(BeFalse())
					}
				}
			}
		})

		It("refuses actions after leaving", func() {
			Expect(reg.EnterFacility(ctx, facility.Inn, p)).To(Succeed())
			Expect(reg.ExitCurrentFacility()).To(Succeed())

			res := execute(facility.Inn, facility.ActionRest, facility.Params{})
			Expect(res.IsError()).To(BeTrue())
			Expect(res.Message).To(Equal("Facility not active"))
		})
	})

	Describe("failed actions", func() {
		It("leaves the party untouched on insufficient gold", func() {
			poor := newTownParty(10)
			Expect(reg.EnterFacility(ctx, facility.Temple, poor)).To(Succeed())

			dorn := poor.Members[1]
			res := execute(facility.Temple, facility.ActionResurrect,
				facility.Params{CharacterID: dorn.ID, Confirmed: true})

			Expect(res.IsWarning()).To(BeTrue())
			Expect(dorn.Status).To(Equal(party.StatusDead))
			Expect(poor.Gold).To(Equal(10))
		})
	})
})
